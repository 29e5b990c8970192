package conf

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/lambda-feedback/gatewayproxy/util/cliflags"
)

// DefaultConfig maps flat, dot separated config keys to default values.
type DefaultConfig map[string]any

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report config keys instead of struct field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("conf"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return v
}

type ParseOptions struct {
	// Cli is the cli.Context from urfave/cli
	Cli *cli.Context

	// CliMap is a map of cli flag names to config keys
	CliMap map[string]string

	// Defaults is a map of default values
	Defaults DefaultConfig

	// EnvPrefix is the prefix for env vars
	EnvPrefix string

	// FileName is the name of the configuration file to load
	FileName string

	// SkipEnv disables loading env vars, e.g. if all keys are bound to
	// cli flags with their own env vars.
	SkipEnv bool

	// Log is the logger to use
	Log *zap.Logger
}

// Parse loads a config struct from defaults, a config file, env vars
// and cli flags, in that order of precedence, and validates it.
func Parse[C any](opt ParseOptions) (C, error) {
	var log *zap.Logger
	if opt.Log != nil {
		log = opt.Log
	} else {
		log = zap.NewNop()
	}

	k := koanf.New(".")

	if opt.Defaults != nil {
		if err := k.Load(confmap.Provider(opt.Defaults, "."), nil); err != nil {
			log.Error("error loading defaults", zap.Error(err))
		}
	}

	if opt.FileName != "" {
		if err := loadFile(k, opt.FileName, opt.EnvPrefix); err != nil {
			log.Error("error parsing file",
				zap.Error(err),
				zap.String("file", opt.FileName),
			)
		}
	}

	transformPrefixedEnv := func(s string) string {
		return transformEnv(s, opt.EnvPrefix)
	}

	var config C

	if !opt.SkipEnv {
		if err := k.Load(env.Provider(opt.EnvPrefix, ".", transformPrefixedEnv), nil); err != nil {
			log.Error("error parsing env vars", zap.Error(err))
			return config, err
		}
	}

	if opt.Cli != nil {
		transformFlag := func(s string) string {
			if opt.CliMap != nil {
				if name, ok := opt.CliMap[s]; ok {
					return name
				}
			}

			// replace - with _
			return strings.ReplaceAll(strings.ToLower(s), "-", "_")
		}

		if err := k.Load(cliflags.Provider(opt.Cli, ".", transformFlag), nil); err != nil {
			log.Error("error parsing cli flags", zap.Error(err))
			return config, err
		}
	}

	if err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{Tag: "conf"}); err != nil {
		log.Error("error unmarshalling config", zap.Error(err))
		return config, err
	}

	if err := Validate(config); err != nil {
		log.Error("invalid config", zap.Error(err))
		return config, err
	}

	return config, nil
}

// Validate checks the `validate` tags of a config struct.
func Validate(config any) error {
	if reflect.Indirect(reflect.ValueOf(config)).Kind() != reflect.Struct {
		return nil
	}

	return validate.Struct(config)
}

// loadFile loads a json config file, or a dotenv file if name ends in
// .env. Dotenv keys follow the env var naming.
func loadFile(k *koanf.Koanf, name, prefix string) error {
	if filepath.Ext(name) != ".env" {
		return k.Load(file.Provider(name), json.Parser())
	}

	raw, err := file.Provider(name).ReadBytes()
	if err != nil {
		return err
	}

	vars, err := dotenv.Parser().Unmarshal(raw)
	if err != nil {
		return err
	}

	values := make(map[string]any, len(vars))
	for key, value := range vars {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		values[transformEnv(key, prefix)] = value
	}

	return k.Load(confmap.Provider(values, "."), nil)
}
