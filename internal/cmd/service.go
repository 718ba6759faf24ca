package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/fxi/geodrink/internal/cache"
	"github.com/fxi/geodrink/internal/datasource"
	"github.com/fxi/geodrink/internal/query"
)

// buildService wires the cache store, Overpass data source and query
// service from the active configuration. The returned cleanup closes the
// cache store.
func buildService() (*query.Service, func(), error) {
	var store cache.Store
	cleanup := func() {}

	if path := viper.GetString("cache_path"); path != "" {
		s, err := cache.NewSQLiteStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open cache: %w", err)
		}
		store = s
		cleanup = func() { _ = s.Close() }
	} else {
		store = cache.NewMemStore()
	}

	c := cache.New(store, logger)
	ds := datasource.NewOverpassDataSource(viper.GetString("overpass_endpoint"))
	return query.NewService(c, ds, logger), cleanup, nil
}
