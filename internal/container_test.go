//go:build unit

package internal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/qtech/forgeupdates/internal"
)

func TestRegisterProviders(t *testing.T) {
	t.Parallel()

	t.Run("should resolve the application with every controller mounted", func(t *testing.T) {
		t.Parallel()

		// given
		container := dig.New()

		// when
		err := internal.RegisterProviders(container)

		// then
		require.NoError(t, err)
		var uses []string
		require.NoError(t, container.Invoke(func(app *internal.AppInternal) {
			for _, controller := range app.GetControllers() {
				uses = append(uses, controller.GetBind().Use)
			}
		}))
		assert.Equal(t, []string{"check [component-id]", "list", "download <component-id>", "watch"}, uses)
	})
}
