package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/eringen/postbrowser"
)

// Config is the on-disk and environment configuration for all commands.
type Config struct {
	Site struct {
		URL    string `mapstructure:"url"`
		Name   string `mapstructure:"name"`
		Author string `mapstructure:"author"`
	} `mapstructure:"site"`
	Server struct {
		Addr          string `mapstructure:"addr"`
		SessionSecret string `mapstructure:"session_secret"`
		CookieSecure  bool   `mapstructure:"cookie_secure"`
		StaticDir     string `mapstructure:"static_dir"`
	} `mapstructure:"server"`
	Browse struct {
		PageSize             int  `mapstructure:"page_size"`
		PreservePageOnFilter bool `mapstructure:"preserve_page_on_filter"`
		TrustMarkup          bool `mapstructure:"trust_markup"`
	} `mapstructure:"browse"`
	Source struct {
		Kind     string        `mapstructure:"kind"`
		Endpoint string        `mapstructure:"endpoint"`
		MaxPosts int           `mapstructure:"max_posts"`
		Timeout  time.Duration `mapstructure:"timeout"`
		Dir      string        `mapstructure:"dir"`
		Database string        `mapstructure:"database"`
		Watch    bool          `mapstructure:"watch"`
	} `mapstructure:"source"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.url", "http://localhost:3000")
	v.SetDefault("site.name", "Blog")
	v.SetDefault("site.author", "")
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.session_secret", "")
	v.SetDefault("server.cookie_secure", false)
	v.SetDefault("server.static_dir", "public")
	v.SetDefault("browse.page_size", postbrowser.DefaultPageSize)
	v.SetDefault("browse.preserve_page_on_filter", false)
	v.SetDefault("browse.trust_markup", false)
	v.SetDefault("source.kind", "graphql")
	v.SetDefault("source.endpoint", "")
	v.SetDefault("source.max_posts", 10000)
	v.SetDefault("source.timeout", 30*time.Second)
	v.SetDefault("source.dir", "content")
	v.SetDefault("source.database", "postbrowser.db")
	v.SetDefault("source.watch", false)
}

// loadConfig reads cfgFile (or ./postbrowser.yaml when empty) and the
// POSTBROWSER_* environment. A missing default config file is not an error.
func loadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	var cfg Config
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("postbrowser")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("POSTBROWSER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return cfg, nil
}

// siteConfig maps the CLI configuration onto the App's SiteConfig.
func (c Config) siteConfig() postbrowser.SiteConfig {
	return postbrowser.SiteConfig{
		Name:                 c.Site.Name,
		URL:                  c.Site.URL,
		Author:               c.Site.Author,
		Addr:                 c.Server.Addr,
		SessionSecret:        c.Server.SessionSecret,
		CookieSecure:         c.Server.CookieSecure,
		PageSize:             c.Browse.PageSize,
		PreservePageOnFilter: c.Browse.PreservePageOnFilter,
		TrustMarkup:          c.Browse.TrustMarkup,
		LoadTimeout:          c.Source.Timeout,
	}
}
