package memorystorage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/patric-chuzhbe/shortie/internal/models"
)

func Test(t *testing.T) {
	t.Run("The base memorystorage package test", func(t *testing.T) {
		theStorage, err := New()
		assert.NoError(t, err, "The memorystorage.New() should not return error")

		err = theStorage.InsertURL(context.Background(), &models.URL{
			ID:     "some-id",
			Slug:   "someslug11",
			URL:    "https://example.com",
			Name:   "example",
			UserID: "some-user",
		})
		assert.NoError(t, err, "The `theStorage.InsertURL()` should not return error")

		url, found, err := theStorage.FindURLBySlug(context.Background(), "someslug11")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "https://example.com", url.URL, "Should resolve to the stored target")

		err = theStorage.Ping(context.Background())
		assert.NoError(t, err, "The memorystorage.Ping() should not return error")

		err = theStorage.Close()
		assert.NoError(t, err, "The memorystorage.Close() should not return error")
	})
}
