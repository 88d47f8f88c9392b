package bot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chirchiq/estate-bot/internal/model"
)

const adminID = 900

type fakeNotifierStore struct {
	users    map[int64]*model.User
	ads      map[int64]*model.Ad
	payments map[int64]*model.Payment
}

func newFakeNotifierStore() *fakeNotifierStore {
	return &fakeNotifierStore{
		users: map[int64]*model.User{
			adminID: {ID: adminID, FirstName: "Admin", Language: model.LangEnglish},
			1:       {ID: 1, FirstName: "Aziz", Username: "aziz"},
		},
		ads:      map[int64]*model.Ad{},
		payments: map[int64]*model.Payment{},
	}
}

func (s *fakeNotifierStore) GetUser(_ context.Context, id int64) (*model.User, error) {
	return s.users[id], nil
}

func (s *fakeNotifierStore) GetAd(_ context.Context, id int64) (*model.Ad, error) {
	return s.ads[id], nil
}

func (s *fakeNotifierStore) GetPayment(_ context.Context, id int64) (*model.Payment, error) {
	return s.payments[id], nil
}

func (s *fakeNotifierStore) SetReceiptHash(_ context.Context, paymentID int64, hash string) error {
	s.payments[paymentID].ReceiptHash = hash
	return nil
}

func (s *fakeNotifierStore) FindPaymentByReceiptHash(_ context.Context, hash string, excludeID int64) (*model.Payment, error) {
	for id, p := range s.payments {
		if id != excludeID && p.ReceiptHash == hash {
			return p, nil
		}
	}
	return nil, nil
}

func receiptServer(t *testing.T, body string) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func sentCaption(t *testing.T, tg *botApiMock) tgbotapi.PhotoConfig {
	t.Helper()
	var photos []tgbotapi.PhotoConfig
	for _, call := range tg.Calls {
		if call.Method == "Send" {
			if p, ok := call.Arguments.Get(0).(tgbotapi.PhotoConfig); ok {
				photos = append(photos, p)
			}
		}
	}
	require.Len(t, photos, 1)
	return photos[0]
}

func TestNotifyNewListing(t *testing.T) {
	store := newFakeNotifierStore()
	store.ads[5] = &model.Ad{
		ID:        5,
		UserID:    1,
		Type:      model.PropertyHouses,
		Title:     "Family house",
		Price:     120000,
		Currency:  "usd",
		Location:  "Chirchiq",
		Photos:    []string{"photo-1", "photo-2"},
		Status:    model.AdStatusPending,
		CreatedAt: time.Now(),
	}
	tg := new(botApiMock)
	tg.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)

	n := NewAdminNotifier(tg, store, adminID, "uzs")
	require.NoError(t, n.NotifyNewListing(context.Background(), 5))

	photo := sentCaption(t, tg)
	assert.Equal(t, int64(adminID), photo.ChatID)
	assert.Equal(t, tgbotapi.FileID("photo-1"), photo.File)
	assert.Contains(t, photo.Caption, "New listing #5")
	assert.Contains(t, photo.Caption, "Aziz @aziz (1)")
	assert.Contains(t, photo.Caption, "120 000 USD")
}

func TestNotifyNewListing_WithoutPhotos(t *testing.T) {
	store := newFakeNotifierStore()
	store.ads[6] = &model.Ad{ID: 6, UserID: 1, Type: model.PropertyLand, Title: "Plot", Currency: "uzs"}
	tg := new(botApiMock)
	tg.On("Send", mock.MatchedBy(func(msg tgbotapi.MessageConfig) bool {
		return msg.ChatID == adminID
	})).Return(tgbotapi.Message{}, nil).Once()

	n := NewAdminNotifier(tg, store, adminID, "uzs")
	require.NoError(t, n.NotifyNewListing(context.Background(), 6))
	tg.AssertExpectations(t)
}

func TestNotifyNewListing_LongDescriptionFits(t *testing.T) {
	store := newFakeNotifierStore()
	store.ads[7] = &model.Ad{
		ID:          7,
		UserID:      1,
		Type:        model.PropertyApartments,
		Title:       strings.Repeat("T", model.MaxTitleLength),
		Description: strings.Repeat("room_", 800),
		Currency:    "uzs",
		Photos:      []string{"photo-1"},
	}
	store.ads[8] = &model.Ad{
		ID:          8,
		UserID:      1,
		Type:        model.PropertyApartments,
		Title:       "Flat",
		Description: strings.Repeat("room_", 800),
		Currency:    "uzs",
	}
	tg := new(botApiMock)
	tg.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)

	n := NewAdminNotifier(tg, store, adminID, "uzs")
	require.NoError(t, n.NotifyNewListing(context.Background(), 7))
	require.NoError(t, n.NotifyNewListing(context.Background(), 8))

	photo := sentCaption(t, tg)
	assert.LessOrEqual(t, utf8.RuneCountInString(photo.Caption), maxCaptionLength)
	assert.Contains(t, photo.Caption, "New listing #7")
	assert.Contains(t, photo.Caption, "📷 1")

	var text string
	for _, call := range tg.Calls {
		if msg, ok := call.Arguments.Get(0).(tgbotapi.MessageConfig); ok {
			text = msg.Text
		}
	}
	assert.LessOrEqual(t, utf8.RuneCountInString(text), maxMessageLength)
	assert.Contains(t, text, "New listing #8")
	assert.Contains(t, text, "…")
}

func TestNotifyNewListing_UnknownAd(t *testing.T) {
	n := NewAdminNotifier(new(botApiMock), newFakeNotifierStore(), adminID, "uzs")
	assert.Error(t, n.NotifyNewListing(context.Background(), 404))
}

func newPayment(id, userID int64) *model.Payment {
	return &model.Payment{
		ID:           id,
		UserID:       userID,
		Role:         model.RoleRealtor,
		Plan:         model.Plan1Month,
		Amount:       50000,
		Currency:     "uzs",
		DurationDays: 30,
		Reference:    "AB12CD34EF",
		Status:       model.PaymentReceiptUploaded,
	}
}

func TestNotifyNewPayment_StoresReceiptHash(t *testing.T) {
	ts := receiptServer(t, "receipt-bytes")
	store := newFakeNotifierStore()
	store.payments[3] = newPayment(3, 1)

	tg := new(botApiMock)
	tg.On("GetFileDirectURL", "receipt-1").Return(ts.URL+"/receipt-1.jpg", nil)
	tg.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)

	n := NewAdminNotifier(tg, store, adminID, "uzs")
	require.NoError(t, n.NotifyNewPayment(context.Background(), 3, "receipt-1"))

	sum := sha256.Sum256([]byte("receipt-bytes"))
	assert.Equal(t, hex.EncodeToString(sum[:]), store.payments[3].ReceiptHash)

	photo := sentCaption(t, tg)
	assert.Equal(t, tgbotapi.FileID("receipt-1"), photo.File)
	assert.Contains(t, photo.Caption, "Payment #3")
	assert.Contains(t, photo.Caption, "50 000 UZS")
	assert.Contains(t, photo.Caption, "AB12CD34EF")
	assert.NotContains(t, photo.Caption, "already attached")
}

func TestNotifyNewPayment_FlagsDuplicateReceipt(t *testing.T) {
	ts := receiptServer(t, "same-receipt")
	sum := sha256.Sum256([]byte("same-receipt"))

	store := newFakeNotifierStore()
	earlier := newPayment(2, 77)
	earlier.ReceiptHash = hex.EncodeToString(sum[:])
	store.payments[2] = earlier
	store.payments[3] = newPayment(3, 1)

	tg := new(botApiMock)
	tg.On("GetFileDirectURL", "receipt-1").Return(ts.URL+"/receipt-1.jpg", nil)
	tg.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)

	n := NewAdminNotifier(tg, store, adminID, "uzs")
	require.NoError(t, n.NotifyNewPayment(context.Background(), 3, "receipt-1"))

	photo := sentCaption(t, tg)
	assert.Contains(t, photo.Caption, enText(msgAdminDuplicateReceipt, 2, 77))
}

func TestNotifyNewPayment_DownloadFailureStillNotifies(t *testing.T) {
	store := newFakeNotifierStore()
	store.payments[3] = newPayment(3, 1)

	tg := new(botApiMock)
	tg.On("GetFileDirectURL", "receipt-1").Return("", errors.New("file not found"))
	tg.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)

	n := NewAdminNotifier(tg, store, adminID, "uzs")
	require.NoError(t, n.NotifyNewPayment(context.Background(), 3, "receipt-1"))

	assert.Empty(t, store.payments[3].ReceiptHash)
	photo := sentCaption(t, tg)
	assert.Contains(t, photo.Caption, "Payment #3")
}

func TestNotifyNewPayment_SendError(t *testing.T) {
	store := newFakeNotifierStore()
	store.payments[3] = newPayment(3, 1)

	tg := new(botApiMock)
	tg.On("GetFileDirectURL", mock.Anything).Return("", errors.New("offline"))
	tg.On("Send", mock.Anything).Return(tgbotapi.Message{}, errors.New("chat not found"))

	n := NewAdminNotifier(tg, store, adminID, "uzs")
	assert.ErrorContains(t, n.NotifyNewPayment(context.Background(), 3, "receipt-1"), "chat not found")
}

func TestSendExpiryReminder(t *testing.T) {
	end := time.Date(2026, 11, 3, 12, 0, 0, 0, time.UTC)
	user := &model.User{ID: 1, Role: model.RoleAgency, Language: model.LangEnglish, SubscriptionEnd: &end}

	tg := new(botApiMock)
	want := makeMessage(1, enText(msgExpiryReminder, "Agency", "03.11.2026", 3))
	tg.On("Send", want).Return(tgbotapi.Message{}, nil).Once()

	b := NewBot(tg, nil, nil, "uzs")
	defer b.Shutdown()
	require.NoError(t, b.SendExpiryReminder(context.Background(), user, 3))
	tg.AssertExpectations(t)

	user.SubscriptionEnd = nil
	assert.Error(t, b.SendExpiryReminder(context.Background(), user, 3))
}
