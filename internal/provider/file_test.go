package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFileProvider_Search(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "rt_HKG-NRT_2026-03-10_2026-03-15.json", offersJSON)
	p := NewFileProvider(dir)

	depart, _ := domain.ParseDate("2026-03-10")
	ret, _ := domain.ParseDate("2026-03-15")

	offers, err := p.Search(context.Background(), SearchRequest{Origin: "hkg", Destination: "nrt", DepartureDate: depart, ReturnDate: &ret})
	require.NoError(t, err)
	assert.Len(t, offers, 1)

	other, _ := domain.ParseDate("2026-04-01")
	offers, err = p.Search(context.Background(), SearchRequest{Origin: "HKG", Destination: "NRT", DepartureDate: other, ReturnDate: &ret})
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestFileProvider_UndatedFallback(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "mc_PEK-HKG-LHR-HKG-PEK.json", offersJSON)
	p := NewFileProvider(dir)

	depart, _ := domain.ParseDate("2026-03-10")
	ret, _ := domain.ParseDate("2026-03-15")
	for _, r := range domain.BuildViaHubRoutes("PEK", "HKG", "LHR", depart, ret) {
		offers, err := p.SearchMultiCity(context.Background(), MultiCityRequest{Legs: r.Legs(), Max: 2})
		require.NoError(t, err)
		assert.Len(t, offers, 1)
	}
}

func TestFileProvider_ProviderError(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "rt_HKG-NRT.json", `{"errors":[{"status":503,"code":141,"title":"SYSTEM ERROR"}]}`)

	_, err := NewFileProvider(dir).Search(context.Background(), SearchRequest{Origin: "HKG", Destination: "NRT"})
	assert.True(t, errors.Is(err, ErrTemporary))
}

func TestFileProvider_BadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "rt_HKG-NRT.json", `{"data":`)

	_, err := NewFileProvider(dir).Search(context.Background(), SearchRequest{Origin: "HKG", Destination: "NRT"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrTemporary))
}

func TestFileProvider_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileProvider(t.TempDir()).Search(ctx, SearchRequest{Origin: "HKG", Destination: "NRT"})
	assert.ErrorIs(t, err, context.Canceled)
}
