package pkgconfig

import (
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: server.address is read from
// DATASWEEPER_SERVER_ADDRESS.
const EnvPrefix = "DATASWEEPER"

// Config is the read-only view handed to application code.
type Config interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetString(key string) string
	GetDuration(key string) time.Duration
	GetArray(key string) []string
	io.Closer
}

// Viper is a Config backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper loads pathFile (type inferred from its extension) on top of
// defaults. An empty pathFile uses defaults and environment only.
func NewViper(pathFile string, defaults map[string]any) (*Viper, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if pathFile != "" {
		v.SetConfigFile(pathFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return &Viper{v: v}, nil
}

func (vc *Viper) GetInt(key string) int64 { return vc.v.GetInt64(key) }

func (vc *Viper) GetBool(key string) bool { return vc.v.GetBool(key) }

func (vc *Viper) GetString(key string) string { return vc.v.GetString(key) }

// GetDuration accepts Go duration strings such as "30m".
func (vc *Viper) GetDuration(key string) time.Duration { return vc.v.GetDuration(key) }

// GetArray accepts a YAML list or a comma separated string.
func (vc *Viper) GetArray(key string) []string {
	var out []string
	for _, item := range vc.v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (vc *Viper) Close() error { return nil }
