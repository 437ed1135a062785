package settings

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productai/internal/logger"
	"productai/internal/shopify"
)

// fakeAdmin is an in-memory stand-in for the Admin API metafield surface.
type fakeAdmin struct {
	shopID     string
	shopIDErr  error
	metafields map[string]string
	readErr    error
	writeErr   error
}

func newFakeAdmin() *fakeAdmin {
	return &fakeAdmin{
		shopID:     "gid://shopify/Shop/42",
		metafields: make(map[string]string),
	}
}

func (f *fakeAdmin) ShopID(ctx context.Context) (string, error) {
	if f.shopIDErr != nil {
		return "", f.shopIDErr
	}
	return f.shopID, nil
}

func (f *fakeAdmin) ShopMetafield(ctx context.Context, namespace, key string) (string, bool, error) {
	if f.readErr != nil {
		return "", false, f.readErr
	}
	value, ok := f.metafields[namespace+"."+key]
	return value, ok, nil
}

func (f *fakeAdmin) SetShopMetafield(ctx context.Context, ownerID, namespace, key, fieldType, value string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if ownerID == "" {
		return fmt.Errorf("missing owner id")
	}
	f.metafields[namespace+"."+key] = value
	return nil
}

func newStore(admin *fakeAdmin) *Store {
	return NewStore(admin, logger.New("error"))
}

func TestAutoGenerateEnabledOnlyLiteralTrue(t *testing.T) {
	admin := newFakeAdmin()
	store := newStore(admin)
	ctx := context.Background()

	for _, value := range []string{"1", "", "TRUE", "yes", "false"} {
		admin.metafields[Namespace+"."+KeyAutoGenerate] = value
		enabled, err := store.AutoGenerateEnabled(ctx)
		require.NoError(t, err)
		assert.False(t, enabled, "value %q must read as disabled", value)
	}

	admin.metafields[Namespace+"."+KeyAutoGenerate] = "true"
	enabled, err := store.AutoGenerateEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestAutoGenerateEnabledAbsentDefaultsFalse(t *testing.T) {
	store := newStore(newFakeAdmin())

	enabled, err := store.AutoGenerateEnabled(context.Background())
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestSetAutoGenerateRoundTrip(t *testing.T) {
	store := newStore(newFakeAdmin())
	ctx := context.Background()

	require.NoError(t, store.SetAutoGenerateEnabled(ctx, true))
	enabled, err := store.AutoGenerateEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, store.SetAutoGenerateEnabled(ctx, false))
	enabled, err = store.AutoGenerateEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestSetAutoGenerateShopNotFound(t *testing.T) {
	admin := newFakeAdmin()
	admin.shopIDErr = shopify.ErrShopNotFound
	store := newStore(admin)

	err := store.SetAutoGenerateEnabled(context.Background(), true)
	assert.ErrorIs(t, err, shopify.ErrShopNotFound)
}

func TestSetAutoGenerateRemoteWriteError(t *testing.T) {
	admin := newFakeAdmin()
	admin.writeErr = &shopify.UserError{Message: "Value is invalid"}
	store := newStore(admin)

	err := store.SetAutoGenerateEnabled(context.Background(), true)
	var userErr *shopify.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "Value is invalid", userErr.Message)
}

func TestAutoGenerateReadFailure(t *testing.T) {
	admin := newFakeAdmin()
	admin.readErr = errors.New("network down")
	store := newStore(admin)

	enabled, err := store.AutoGenerateEnabled(context.Background())
	assert.Error(t, err)
	assert.False(t, enabled)
}

func TestDefaultLanguage(t *testing.T) {
	admin := newFakeAdmin()
	store := newStore(admin)
	ctx := context.Background()

	lang, err := store.DefaultLanguage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "English", lang)

	require.NoError(t, store.SetDefaultLanguage(ctx, "French"))
	lang, err = store.DefaultLanguage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "French", lang)

	admin.metafields[Namespace+"."+KeyDefaultLanguage] = "Esperanto"
	lang, err = store.DefaultLanguage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "English", lang)
}

func TestSetDefaultLanguageRejectsUnsupported(t *testing.T) {
	store := newStore(newFakeAdmin())

	err := store.SetDefaultLanguage(context.Background(), "Esperanto")
	assert.Error(t, err)
}
