package catalog

import (
	"flag"

	"github.com/zachfi/zkit/pkg/util"
)

const defaultConcurrency = 75

type Config struct {
	Dir          string `yaml:"dir,omitempty"`
	Concurrency  int    `yaml:"concurrency,omitempty"`
	DisableEmoji bool   `yaml:"disable-emoji,omitempty"`
	Verbose      bool   `yaml:"verbose,omitempty"`
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.Dir, util.PrefixConfig(prefix, "dir"), ".", "Directory to scan for station JSON documents")
	f.IntVar(&cfg.Concurrency, util.PrefixConfig(prefix, "concurrency"), defaultConcurrency, "Number of documents checked at once")
	f.BoolVar(&cfg.DisableEmoji, util.PrefixConfig(prefix, "disable-emoji"), false, "Disable emoji in the printed summary")
	f.BoolVar(&cfg.Verbose, util.PrefixConfig(prefix, "verbose"), false, "List duplicate stations and full file errors in the printed summary")
}
