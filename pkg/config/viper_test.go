package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/quotesdb/quotes-crawler/pkg/config"
)

func TestInitConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	config.InitConfig()

	assert.Equal(t, "https://quotes.toscrape.com", viper.GetString("scraper.base_url"))
	assert.NotEmpty(t, viper.GetString("scraper.user_agent"))
	assert.Equal(t, "15s", viper.GetString("scraper.request_timeout"))
	assert.Equal(t, "sqlite", viper.GetString("database.engine"))
	assert.Equal(t, "quotes.db", viper.GetString("database.sqlite.path"))
	assert.Equal(t, "24h", viper.GetString("scheduler.interval"))
	assert.Equal(t, ":8080", viper.GetString("api.addr"))
}
