// Package config defines process configuration and its loading.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir is the directory holding the name lists. Empty uses the lists
	// compiled into the binary.
	DataDir string `koanf:"data_dir"`

	// FemaleFile, MaleFile and UnisexFile name the three lists inside DataDir.
	FemaleFile string `koanf:"female_file"`
	MaleFile   string `koanf:"male_file"`
	UnisexFile string `koanf:"unisex_file"`

	// Encoding is the WHATWG label of the name list encoding.
	Encoding string `koanf:"encoding"`

	// MaxBatchSize caps the number of names in POST /predict.
	MaxBatchSize int `koanf:"max_batch_size"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Addr:         ":9080",
		DataDir:      "",
		FemaleFile:   "pigenavne.txt",
		MaleFile:     "drengenavne.txt",
		UnisexFile:   "unisexnavne.txt",
		Encoding:     "utf-8",
		MaxBatchSize: 1000,
	}
}
