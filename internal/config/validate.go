package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour/styles"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// CheckConfigValidity reports every invalid option at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	if _, err := zerolog.ParseLevel(v.GetString("log.level")); err != nil {
		errs = append(errs, fmt.Errorf("log.level %q is not a level", v.GetString("log.level")))
	}
	if v.GetInt("preview.word_wrap") < 0 {
		errs = append(errs, errors.New("preview.word_wrap must not be negative"))
	}
	if r := v.GetFloat64("preview.width_ratio"); r < 0.2 || r > 1 {
		errs = append(errs, errors.New("preview.width_ratio must be between 0.2 and 1"))
	}
	for _, key := range []string{"preview.style_dark", "preview.style_light"} {
		if !knownStyle(v.GetString(key)) {
			errs = append(errs, fmt.Errorf("%s %q is not a glamour style", key, v.GetString(key)))
		}
	}
	if v.GetInt("import.header_row") < 1 {
		errs = append(errs, errors.New("import.header_row must be at least 1"))
	}
	return errors.Join(errs...)
}

func knownStyle(name string) bool {
	if name == "auto" {
		return true
	}
	_, ok := styles.DefaultStyles[name]
	return ok
}
