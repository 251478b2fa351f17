package customer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
)

func TestFoldName(t *testing.T) {
	for in, want := range map[string]string{
		"  Ahmet   Yılmaz ": "ahmet yilmaz",
		"ISMAIL KAYA":       "ismail kaya",
		"İSMAİL KAYA":       "ismail kaya",
		"IŞIK":              "işik",
		"":                  "",
	} {
		assert.Equal(t, want, FoldName(in), in)
	}
}

func TestCheckDuplicate(t *testing.T) {
	existing := []repo.Customer{
		{ID: "1", Name: "Mehmet Kaya", Phone: "5551234567"},
		{ID: "2", Name: "ahmet  yılmaz", Phone: "5559876543"},
		{ID: "3", Name: "IŞIK Demir", Phone: "5550000000"},
		{ID: "4", Name: "ismail kaya", Phone: "5550000001"},
	}

	tests := []struct {
		name      string
		inName    string
		inPhone   string
		exceptID  string
		wantField string
		wantID    string
	}{
		{"phone match", "Someone Else", "5551234567", "", FieldPhone, "1"},
		{"phone trimmed", "Someone Else", " 5551234567 ", "", FieldPhone, "1"},
		{"name case and spaces", "  Ahmet Yılmaz ", "5551112233", "", FieldName, "2"},
		{"turkish dotless i", "ışık demir", "5551112233", "", FieldName, "3"},
		{"ascii capital I", "ISMAIL KAYA", "5551112233", "", FieldName, "4"},
		{"dotted capital I", "İsmail Kaya", "5551112233", "", FieldName, "4"},
		{"phone wins over name", "Ahmet Yılmaz", "5551234567", "", FieldPhone, "1"},
		{"edited record excluded", "Mehmet Kaya", "5551234567", "1", "", ""},
		{"no collision", "Can Öz", "5554443322", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDuplicate(tt.inName, tt.inPhone, existing, tt.exceptID)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var dup *DuplicateError
			require.ErrorAs(t, err, &dup)
			assert.True(t, errors.Is(err, ErrDuplicate))
			assert.Equal(t, tt.wantField, dup.Field)
			assert.Equal(t, tt.wantID, dup.Existing.ID)
		})
	}
}

func TestCreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := New(repo.NewMemoryStore(), "TR")

	first, err := svc.Create(ctx, Request{Name: "Ahmet Yılmaz", Phone: "5551234567"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Request{Name: "Veli Can", Phone: "5551234567"})
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, FieldPhone, dup.Field)
	assert.Equal(t, "Ahmet Yılmaz", dup.Existing.Name)

	_, err = svc.Create(ctx, Request{Name: "ahmet yılmaz", Phone: "5550001111"})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, FieldName, dup.Field)

	// Renaming a record to its own name is not a duplicate.
	updated, err := svc.Update(ctx, first.ID, Request{Name: "Ahmet  Yılmaz", Phone: "5551234567", IsSubscriber: true})
	require.NoError(t, err)
	assert.Equal(t, "Ahmet Yılmaz", updated.Name)
	assert.True(t, updated.IsSubscriber)

	_, err = svc.Create(ctx, Request{Name: " ", Phone: "1"})
	assert.ErrorIs(t, err, ErrMissingName)
	_, err = svc.Create(ctx, Request{Name: "X", Phone: " "})
	assert.ErrorIs(t, err, ErrMissingPhone)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc := New(repo.NewMemoryStore(), "TR")

	for _, r := range []Request{
		{Name: "Zeynep Ak", Phone: "5551110000"},
		{Name: "ali Veli", Phone: "5552220000"},
		{Name: "Burak Ali", Phone: "5553330000"},
	} {
		_, err := svc.Create(ctx, r)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "ali Veli", all[0].Name)
	assert.Equal(t, "Zeynep Ak", all[2].Name)

	byName, err := svc.List(ctx, "ALİ")
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	byPhone, err := svc.List(ctx, "333")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Burak Ali", byPhone[0].Name)
}

func TestDeleteCascadesToSubscriptions(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	svc := New(store, "TR")

	c, err := svc.Create(ctx, Request{Name: "Ali", Phone: "5551234567"})
	require.NoError(t, err)
	_, err = store.CreateSubscription(ctx, repo.Subscription{CustomerID: c.ID, PitchID: "barnebau", TimeSlot: "18.00", DaysOfWeek: []int{1}, Active: true})
	require.NoError(t, err)
	keep, err := store.CreateSubscription(ctx, repo.Subscription{CustomerID: "someone-else", PitchID: "noucamp", TimeSlot: "18.00", DaysOfWeek: []int{1}, Active: true})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, c.ID))

	subs, err := store.ListSubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, keep, subs[0].ID)

	assert.ErrorIs(t, svc.Delete(ctx, c.ID), ErrNotFound)
}

func TestWhatsAppLink(t *testing.T) {
	tests := []struct {
		phone   string
		message string
		want    string
	}{
		{"5551234567", "", "https://wa.me/905551234567"},
		{"0555 123 45 67", "Merhaba", "https://wa.me/905551234567?text=Merhaba"},
		{"+49 30 123456", "Saat 20.00 & saha", "https://wa.me/4930123456?text=Saat%2020.00%20%26%20saha"},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			got, err := WhatsAppLink(tt.phone, "TR", tt.message)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := WhatsAppLink("not a phone", "TR", "")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}
