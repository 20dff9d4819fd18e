package sheet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/curations/storefront/internal/catalog"
	"github.com/curations/storefront/internal/storage"
)

func str(s string) *string { return &s }

func qty(n int) *int { return &n }

func TestExportThenFetch(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	catalogs := map[catalog.Category][]catalog.RawProductRecord{
		catalog.CategoryGifts: {
			{Title: str("Rose Bouquet"), Price: catalog.ScalarOf("₹1,999"), OfferPrice: catalog.ScalarOf("1499"), Badge: str("Bestseller")},
			{Title: str("Gift Box"), Price: catalog.ScalarOf("2600"), AvailableQuantity: qty(0)},
		},
	}
	key := storage.WorkbookKey("catalog")
	require.NoError(t, Export(ctx, store, key, catalogs))

	info, err := store.GetInfo(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, info.Metadata)
	assert.Equal(t, ContentType, info.Metadata.ContentType)

	src := New(store, key)
	gifts, err := src.Fetch(ctx, catalog.CategoryGifts)
	require.NoError(t, err)
	require.Len(t, gifts, 2)
	assert.Equal(t, "Rose Bouquet", *gifts[0].Title)
	assert.Equal(t, "₹1,999", gifts[0].Price.String())
	assert.Equal(t, "1499", gifts[0].OfferPrice.String())
	assert.False(t, gifts[0].OriginalPrice.Present())
	assert.Nil(t, gifts[0].AvailableQuantity)
	assert.Equal(t, "Bestseller", *gifts[0].Badge)
	require.NotNil(t, gifts[1].AvailableQuantity)
	assert.Equal(t, 0, *gifts[1].AvailableQuantity)

	accessories, err := src.Fetch(ctx, catalog.CategoryAccessories)
	require.NoError(t, err)
	assert.NotNil(t, accessories)
	assert.Empty(t, accessories)
}

func TestParseHandAuthoredWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Accessories"))
	require.NoError(t, f.SetSheetRow("Accessories", "A1", &[]any{"Title", "Image URL", "Price", "Available Quantity"}))
	require.NoError(t, f.SetSheetRow("Accessories", "A2", &[]any{"Pearl Studs", "https://img/p.jpg", 1200, "3"}))
	require.NoError(t, f.SetSheetRow("Accessories", "A3", &[]any{"", "", "", ""}))
	require.NoError(t, f.SetSheetRow("Accessories", "A4", &[]any{"Gold Hoops", "", "", "-1.5"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	records, err := Parse(buf.Bytes(), catalog.CategoryAccessories)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "https://img/p.jpg", *records[0].ImageURL)
	assert.Equal(t, "1200", records[0].Price.String())
	assert.Equal(t, 3, *records[0].AvailableQuantity)
	assert.Nil(t, records[1].ImageURL)
	assert.Nil(t, records[1].AvailableQuantity)

	_, err = Parse(buf.Bytes(), catalog.CategoryGifts)
	assert.ErrorContains(t, err, "not found")
}

func TestParseRejectsMissingTitleColumn(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "gifts"))
	require.NoError(t, f.SetSheetRow("gifts", "A1", &[]any{"name", "price"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = Parse(buf.Bytes(), catalog.CategoryGifts)
	assert.Error(t, err)
}

func TestFetchMissingWorkbook(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = New(store, "catalog/missing.xlsx").Fetch(context.Background(), catalog.CategoryGifts)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHeaderKey(t *testing.T) {
	for _, in := range []string{"image_url", "Image URL", "imageUrl", " IMAGE-URL "} {
		assert.Equal(t, "imageurl", headerKey(in), in)
	}
}
