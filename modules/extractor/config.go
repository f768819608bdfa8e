package extractor

import (
	"flag"

	"github.com/zachfi/zkit/pkg/util"

	"github.com/zachfi/stationgo/pkg/fmstream"
)

// stdio names standard input for page-file and standard output for
// output-file.
const stdio = "-"

type Config struct {
	PageFile   string `yaml:"page-file,omitempty"`
	DataFile   string `yaml:"data-file,omitempty"`   // empty: read data from the page's scripts
	OutputFile string `yaml:"output-file,omitempty"` // empty or "-": stdout
	Selector   string `yaml:"selector,omitempty"`
	Strict     bool   `yaml:"strict,omitempty"` // fail on name/record count mismatch instead of truncating
	Indent     bool   `yaml:"indent,omitempty"`
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.PageFile, util.PrefixConfig(prefix, "page-file"), stdio, "HTML station listing to read, - for stdin")
	f.StringVar(&cfg.DataFile, util.PrefixConfig(prefix, "data-file"), "", "File holding the data array. When empty the array is read from the page's scripts.")
	f.StringVar(&cfg.OutputFile, util.PrefixConfig(prefix, "output-file"), stdio, "Where to write the stations document, - for stdout")
	f.StringVar(&cfg.Selector, util.PrefixConfig(prefix, "selector"), fmstream.DefaultSelector, "CSS selector matching one node per station name")
	f.BoolVar(&cfg.Strict, util.PrefixConfig(prefix, "strict"), false, "Fail when the number of station names and records differ instead of ignoring the extra entries")
	f.BoolVar(&cfg.Indent, util.PrefixConfig(prefix, "indent"), true, "Indent the stations document")
}
