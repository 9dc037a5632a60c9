// Package config wires viper defaults, the optional config file and the
// NUTSHELL_* environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/csams/nutshell/internal/filesystem"
	"github.com/csams/nutshell/internal/key"
	"github.com/csams/nutshell/internal/models"
	"github.com/csams/nutshell/internal/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps "listing.page_size" to LISTING_PAGE_SIZE.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads defaults, environment bindings and nutshell.toml from the
// config directory. A missing config file is not an error.
func Setup() error {
	viper.SetConfigName("nutshell")
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix("nutshell")
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	return nil
}

// Shows decodes the configured show list.
func Shows() (models.Shows, error) {
	var shows models.Shows
	if err := viper.UnmarshalKey(key.Shows, &shows); err != nil {
		return nil, fmt.Errorf("failed to decode shows: %w", err)
	}
	if len(shows) == 0 {
		return nil, errors.New("no shows configured")
	}
	return shows, nil
}

// Show resolves a show by slug, or the configured default when slug is "".
func Show(slug string) (models.Show, error) {
	shows, err := Shows()
	if err != nil {
		return models.Show{}, err
	}
	if slug == "" {
		slug = viper.GetString(key.ShowDefault)
	}
	show, ok := shows.Find(slug)
	if !ok {
		return models.Show{}, fmt.Errorf("unknown show %q", slug)
	}
	return show, nil
}
