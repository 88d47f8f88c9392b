package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirchiq/estate-bot/internal/model"
)

var storeNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "estate.db"))
	require.NoError(t, err)
	store.now = func() time.Time { return storeNow }
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, id int64, role model.Role) {
	t.Helper()
	err := store.CreateUser(context.Background(), &model.User{
		ID:        id,
		FirstName: "Dilnoza",
		Username:  "dilnoza",
		Role:      role,
		Language:  model.LangUzbek,
		Currency:  "uzs",
		CreatedAt: storeNow,
	})
	require.NoError(t, err)
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	u, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, u)

	createUser(t, store, 1, model.RoleBuyer)

	u, err = store.GetUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Dilnoza", u.FirstName)
	assert.Equal(t, model.RoleBuyer, u.Role)
	assert.Equal(t, model.LangUzbek, u.Language)
	assert.Equal(t, storeNow, u.CreatedAt)
	assert.False(t, u.TrialUsed)
	assert.Nil(t, u.SubscriptionEnd)

	// Re-registering refreshes names but keeps role and language.
	require.NoError(t, store.UpdateUserLanguage(ctx, 1, model.LangEnglish))
	require.NoError(t, store.CreateUser(ctx, &model.User{ID: 1, FirstName: "Dilya", Role: model.RoleSeller, Language: model.LangRussian, Currency: "uzs"}))
	u, err = store.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dilya", u.FirstName)
	assert.Equal(t, model.RoleBuyer, u.Role)
	assert.Equal(t, model.LangEnglish, u.Language)

	assert.Error(t, store.UpdateUserLanguage(ctx, 404, model.LangEnglish))
}

func TestSQLiteStore_UpdateUserRole(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createUser(t, store, 1, model.RoleBuyer)

	require.NoError(t, store.UpdateUserRole(ctx, 1, model.RoleSeller, 0))
	u, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSeller, u.Role)
	assert.Nil(t, u.SubscriptionEnd)

	require.NoError(t, store.UpdateUserRole(ctx, 1, model.RoleRealtor, 21))
	u, err = store.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoleRealtor, u.Role)
	assert.True(t, u.TrialUsed)
	require.NotNil(t, u.SubscriptionStart)
	require.NotNil(t, u.SubscriptionEnd)
	assert.Equal(t, storeNow, *u.SubscriptionStart)
	assert.Equal(t, storeNow.AddDate(0, 0, 21), *u.SubscriptionEnd)
	assert.True(t, u.HasActiveSubscription(storeNow))

	subs, err := store.GetSubscriptions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, SubscriptionTrial, subs[0].Kind)
	assert.Equal(t, model.RoleRealtor, subs[0].Role)
	assert.Equal(t, storeNow.AddDate(0, 0, 21), subs[0].EndsAt)

	// Switching between paid roles keeps the end date.
	require.NoError(t, store.UpdateUserRole(ctx, 1, model.RoleAgency, 0))
	u, err = store.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAgency, u.Role)
	assert.Equal(t, storeNow.AddDate(0, 0, 21), *u.SubscriptionEnd)

	assert.Error(t, store.UpdateUserRole(ctx, 404, model.RoleSeller, 0))
	assert.Error(t, store.UpdateUserRole(ctx, 404, model.RoleTenant, 28))
}

func TestSQLiteStore_Ads(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createUser(t, store, 1, model.RoleSeller)

	ad := &model.Ad{
		UserID:      1,
		Type:        model.PropertyApartments,
		Title:       "Flat",
		Description: "3 rooms, 75 m2, 5th floor",
		Price:       85000,
		Currency:    "usd",
		Location:    "Yunusabad",
		Photos:      []string{"p1", "p2"},
		CreatedAt:   storeNow,
	}
	id, err := store.CreateAd(ctx, ad)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, id, ad.ID)

	got, err := store.GetAd(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.AdStatusPending, got.Status)
	assert.Equal(t, []string{"p1", "p2"}, got.Photos)
	assert.Equal(t, 85000.0, got.Price)
	assert.Equal(t, storeNow, got.CreatedAt)

	_, err = store.CreateAd(ctx, &model.Ad{UserID: 1, Type: model.PropertyLand, Title: "Plot", CreatedAt: storeNow.Add(time.Hour)})
	require.NoError(t, err)

	ads, err := store.GetUserAds(ctx, 1)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	assert.Equal(t, "Plot", ads[0].Title)
	assert.Empty(t, ads[0].Photos)
	assert.Equal(t, "Flat", ads[1].Title)

	missing, err := store.GetAd(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteStore_DeleteAd(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createUser(t, store, 1, model.RoleSeller)
	createUser(t, store, 2, model.RoleSeller)

	id, err := store.CreateAd(ctx, &model.Ad{UserID: 1, Type: model.PropertyLand, Title: "Plot", CreatedAt: storeNow})
	require.NoError(t, err)

	// Only the owner can delete.
	assert.Error(t, store.DeleteAd(ctx, 2, id))
	require.NoError(t, store.DeleteAd(ctx, 1, id))

	got, err := store.GetAd(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Error(t, store.DeleteAd(ctx, 1, id))
}

func TestSQLiteStore_RenewAd(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createUser(t, store, 1, model.RoleSeller)

	created := storeNow.Add(-40 * 24 * time.Hour)
	id, err := store.CreateAd(ctx, &model.Ad{UserID: 1, Type: model.PropertyLand, Title: "Plot", Status: model.AdStatusApproved, CreatedAt: created})
	require.NoError(t, err)

	count, err := store.CountActiveListings(ctx, 1, storeNow)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.Error(t, store.RenewAd(ctx, 2, id, storeNow))
	require.NoError(t, store.RenewAd(ctx, 1, id, storeNow))

	got, err := store.GetAd(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, storeNow, got.CreatedAt)
	assert.Equal(t, model.AdStatusApproved, got.Status)

	count, err = store.CountActiveListings(ctx, 1, storeNow)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteStore_CountActiveListings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createUser(t, store, 1, model.RoleSeller)
	createUser(t, store, 2, model.RoleSeller)

	add := func(userID int64, status model.AdStatus, age time.Duration) {
		_, err := store.CreateAd(ctx, &model.Ad{
			UserID:    userID,
			Type:      model.PropertyHouses,
			Title:     "House",
			Status:    status,
			CreatedAt: storeNow.Add(-age),
		})
		require.NoError(t, err)
	}
	add(1, model.AdStatusPending, time.Hour)
	add(1, model.AdStatusApproved, 29*24*time.Hour)
	add(1, model.AdStatusRejected, time.Hour)
	add(1, model.AdStatusApproved, 31*24*time.Hour)
	add(2, model.AdStatusPending, time.Hour)

	count, err := store.CountActiveListings(ctx, 1, storeNow)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// A day later the 29-day-old ad has expired.
	count, err = store.CountActiveListings(ctx, 1, storeNow.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = store.CountActiveListings(ctx, 3, storeNow)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLiteStore_Payments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createUser(t, store, 1, model.RoleRealtor)

	p := &model.Payment{
		UserID:       1,
		Role:         model.RoleRealtor,
		Plan:         model.Plan3Months,
		Amount:       135000,
		Currency:     "uzs",
		DurationDays: 90,
		Reference:    "A1B2C3D4E5",
		CreatedAt:    storeNow,
	}
	id, err := store.CreatePendingPayment(ctx, p)
	require.NoError(t, err)

	got, err := store.GetPayment(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.PaymentPending, got.Status)
	assert.Equal(t, model.Plan3Months, got.Plan)
	assert.Equal(t, 135000.0, got.Amount)
	assert.Equal(t, "A1B2C3D4E5", got.Reference)

	require.NoError(t, store.AttachReceipt(ctx, id, "file-1"))
	got, err = store.GetPayment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentReceiptUploaded, got.Status)
	assert.Equal(t, "file-1", got.ReceiptFileID)

	// A receipt can only be attached to a pending payment.
	assert.Error(t, store.AttachReceipt(ctx, id, "file-2"))

	// Cancelling after the receipt arrived changes nothing.
	require.NoError(t, store.CancelPayment(ctx, id))
	got, err = store.GetPayment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentReceiptUploaded, got.Status)

	missing, err := store.GetPayment(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteStore_CancelPayment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createUser(t, store, 1, model.RoleRealtor)

	id, err := store.CreatePendingPayment(ctx, &model.Payment{UserID: 1, Role: model.RoleRealtor, Plan: model.Plan1Month, Reference: "REF0000001"})
	require.NoError(t, err)

	require.NoError(t, store.CancelPayment(ctx, id))
	got, err := store.GetPayment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCancelled, got.Status)
	assert.Error(t, store.AttachReceipt(ctx, id, "late"))
}

func TestSQLiteStore_GetUserPayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createUser(t, store, 1, model.RoleRealtor)
	createUser(t, store, 2, model.RoleRealtor)

	for i, ref := range []string{"REF0000001", "REF0000002", "REF0000003"} {
		_, err := store.CreatePendingPayment(ctx, &model.Payment{
			UserID:    1,
			Role:      model.RoleRealtor,
			Plan:      model.Plan1Month,
			Amount:    50000,
			Currency:  "uzs",
			Reference: ref,
			CreatedAt: storeNow.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := store.CreatePendingPayment(ctx, &model.Payment{UserID: 2, Role: model.RoleAgency, Plan: model.Plan1Month, Reference: "OTHER00001"})
	require.NoError(t, err)

	payments, err := store.GetUserPayments(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "REF0000003", payments[0].Reference)
	assert.Equal(t, "REF0000002", payments[1].Reference)

	payments, err = store.GetUserPayments(ctx, 3, 10)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestSQLiteStore_ReceiptHash(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createUser(t, store, 1, model.RoleRealtor)

	first, err := store.CreatePendingPayment(ctx, &model.Payment{UserID: 1, Role: model.RoleRealtor, Plan: model.Plan1Month, Reference: "REF0000001"})
	require.NoError(t, err)
	second, err := store.CreatePendingPayment(ctx, &model.Payment{UserID: 1, Role: model.RoleRealtor, Plan: model.Plan1Month, Reference: "REF0000002"})
	require.NoError(t, err)

	dup, err := store.FindPaymentByReceiptHash(ctx, "abc", second)
	require.NoError(t, err)
	assert.Nil(t, dup)

	require.NoError(t, store.SetReceiptHash(ctx, first, "abc"))
	require.NoError(t, store.SetReceiptHash(ctx, second, "abc"))

	dup, err = store.FindPaymentByReceiptHash(ctx, "abc", second)
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.Equal(t, first, dup.ID)

	dup, err = store.FindPaymentByReceiptHash(ctx, "", second)
	require.NoError(t, err)
	assert.Nil(t, dup)

	assert.Error(t, store.SetReceiptHash(ctx, 999, "abc"))
}

func TestSQLiteStore_ExpiringSubscriptions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for id, role := range map[int64]model.Role{1: model.RoleBuyer, 2: model.RoleBuyer, 3: model.RoleBuyer, 4: model.RoleBuyer} {
		createUser(t, store, id, role)
	}
	// 1 and 2 get trials ending in 7 and 21 days, 3 a trial then a free role.
	store.now = func() time.Time { return storeNow.Add(-14 * 24 * time.Hour) }
	require.NoError(t, store.UpdateUserRole(ctx, 1, model.RoleRealtor, 21))
	store.now = func() time.Time { return storeNow }
	require.NoError(t, store.UpdateUserRole(ctx, 2, model.RoleRealtor, 21))
	require.NoError(t, store.UpdateUserRole(ctx, 3, model.RoleDeveloper, 7))
	require.NoError(t, store.UpdateUserRole(ctx, 3, model.RoleSeller, 0))

	week := 7 * 24 * time.Hour
	users, err := store.ListExpiringSubscriptions(ctx, storeNow, week)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(1), users[0].ID)

	require.NoError(t, store.MarkExpiryReminded(ctx, 1, *users[0].SubscriptionEnd))
	users, err = store.ListExpiringSubscriptions(ctx, storeNow, week)
	require.NoError(t, err)
	assert.Empty(t, users)

	users, err = store.ListExpiringSubscriptions(ctx, storeNow, 30*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(2), users[0].ID)
}
