package bootstrap

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	folio "github.com/goliatone/go-folio"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. FOLIO_CONTENT_DIR.
	EnvPrefix = "FOLIO"
	// ConfigName is looked up as folio.yaml in the working directory.
	ConfigName = "folio"
)

// Options controls configuration loading.
type Options struct {
	// ConfigFile is an explicit path; empty searches the working directory.
	ConfigFile string
	// Flags are bound onto matching config keys when they were set.
	Flags map[string]*pflag.Flag
}

// Loaded is the decoded configuration and the file it came from, if any.
type Loaded struct {
	Config     folio.Config
	ConfigFile string
}

// LoadConfig merges defaults, folio.yaml, FOLIO_* variables and flags, in
// increasing precedence, and validates the result.
func LoadConfig(opts Options) (*Loaded, error) {
	v := viper.New()
	defaults := folio.DefaultConfig()
	registerDefaults(v, "", reflect.ValueOf(defaults))

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range opts.Flags {
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}

	loaded := &Loaded{}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.ConfigFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		loaded.ConfigFile = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&loaded.Config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := loaded.Config.Validate(); err != nil {
		return nil, err
	}
	return loaded, nil
}

// BuildModule loads configuration and constructs the pipeline module.
func BuildModule(opts Options, moduleOpts ...folio.Option) (*folio.Module, *Loaded, error) {
	loaded, err := LoadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	module, err := folio.New(loaded.Config, moduleOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("initialise folio module: %w", err)
	}
	return module, loaded, nil
}

// registerDefaults walks the mapstructure tags so every key is known to viper,
// which AutomaticEnv needs for Unmarshal to see environment overrides.
func registerDefaults(v *viper.Viper, prefix string, value reflect.Value) {
	typ := value.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := strings.Split(field.Tag.Get("mapstructure"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		fieldValue := value.Field(i)
		if fieldValue.Kind() == reflect.Struct {
			registerDefaults(v, key, fieldValue)
			continue
		}
		v.SetDefault(key, fieldValue.Interface())
	}
}
