package bot

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirchiq/estate-bot/internal/flow"
	"github.com/chirchiq/estate-bot/internal/model"
)

func (tb *testBot) createAd(userID int64, title string, status model.AdStatus, age time.Duration) int64 {
	tb.t.Helper()
	id, err := tb.store.CreateAd(context.Background(), &model.Ad{
		UserID:    userID,
		Type:      model.PropertyApartments,
		Title:     title,
		Price:     45000,
		Currency:  "usd",
		Location:  "Chirchiq",
		Status:    status,
		CreatedAt: time.Now().Add(-age),
	})
	require.NoError(tb.t, err)
	return id
}

func adData(action string, id int64) string {
	return "ad:" + action + ":" + strconv.FormatInt(id, 10)
}

func TestParseAdChoice(t *testing.T) {
	action, id, ok := parseAdChoice("renew:42")
	assert.True(t, ok)
	assert.Equal(t, flow.ActionRenew, action)
	assert.Equal(t, int64(42), id)

	for _, value := range []string{"renew", "renew:", "renew:x", "renew:0", "renew:-3"} {
		_, _, ok := parseAdChoice(value)
		assert.False(t, ok, value)
	}
}

func TestMyAds_Buttons(t *testing.T) {
	tb := newTestBot(t)
	tb.register(1, model.RoleSeller)

	pending := tb.createAd(1, "Pending flat", model.AdStatusPending, time.Hour)
	tb.text(1, "/myads")
	sent := tb.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{adData(flow.ActionWithdraw, pending)}, callbackData(t, sent[0]))

	require.NoError(t, tb.store.DeleteAd(context.Background(), 1, pending))

	expired := tb.createAd(1, "Old flat", model.AdStatusApproved, 31*24*time.Hour)
	tb.text(1, "/myads")
	sent = tb.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{adData(flow.ActionRenew, expired), adData(flow.ActionDelete, expired)}, callbackData(t, sent[0]))

	published := tb.createAd(1, "New flat", model.AdStatusApproved, time.Hour)
	tb.text(1, "/myads")
	sent = tb.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{
		adData(flow.ActionDelete, published),
		adData(flow.ActionRenew, expired), adData(flow.ActionDelete, expired),
	}, callbackData(t, sent[0]))
}

func TestAdAction_Delete(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()
	tb.register(1, model.RoleSeller)
	id := tb.createAd(1, "Family house", model.AdStatusApproved, time.Hour)

	tb.press(1, adData(flow.ActionDelete, id))
	assert.Equal(t, []string{enText(msgAdDeleted, "Family house")}, tb.sentTexts())

	ad, err := tb.store.GetAd(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, ad)

	tb.press(1, adData(flow.ActionDelete, id))
	assert.Equal(t, []string{enText(msgAdNotFound)}, tb.sentTexts())
}

func TestAdAction_WithdrawPending(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()
	tb.register(1, model.RoleSeller)
	id := tb.createAd(1, "Garage", model.AdStatusPending, time.Hour)

	tb.press(1, adData(flow.ActionWithdraw, id))
	assert.Equal(t, []string{enText(msgAdWithdrawn, "Garage")}, tb.sentTexts())

	count, err := tb.store.CountActiveListings(ctx, 1, time.Now())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAdAction_OtherUsersAd(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()
	tb.register(1, model.RoleSeller)
	tb.register(2, model.RoleSeller)
	id := tb.createAd(1, "Family house", model.AdStatusApproved, time.Hour)

	tb.press(2, adData(flow.ActionDelete, id))
	assert.Equal(t, []string{enText(msgAdNotFound)}, tb.sentTexts())

	ad, err := tb.store.GetAd(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, ad)
}

func TestAdAction_Malformed(t *testing.T) {
	tb := newTestBot(t)
	tb.register(1, model.RoleSeller)
	id := tb.createAd(1, "Family house", model.AdStatusApproved, time.Hour)

	tb.press(1, "ad:delete:x")
	assert.Equal(t, []string{enText(flow.MsgSessionExpired)}, tb.sentTexts())

	tb.press(1, adData("publish", id))
	assert.Equal(t, []string{enText(flow.MsgSessionExpired)}, tb.sentTexts())
}

func TestAdAction_Renew(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()
	tb.register(1, model.RoleSeller)

	active := tb.createAd(1, "New flat", model.AdStatusApproved, time.Hour)
	tb.press(1, adData(flow.ActionRenew, active))
	assert.Equal(t, []string{enText(msgAdStillActive, "New flat")}, tb.sentTexts())

	expired := tb.createAd(1, "Old flat", model.AdStatusApproved, 31*24*time.Hour)
	tb.press(1, adData(flow.ActionRenew, expired))
	assert.Equal(t, []string{enText(msgAdRenewed, "Old flat", 30)}, tb.sentTexts())

	ad, err := tb.store.GetAd(ctx, expired)
	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.True(t, ad.IsActive(time.Now()))
	assert.Equal(t, model.AdStatusApproved, ad.Status)
}

func TestAdAction_RenewRespectsLimit(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()
	tb.register(1, model.RoleSeller)

	var active []int64
	for i := 0; i < model.FreeRoleListingLimit; i++ {
		active = append(active, tb.createAd(1, "Flat "+strconv.Itoa(i), model.AdStatusApproved, time.Hour))
	}
	expired := tb.createAd(1, "Old flat", model.AdStatusApproved, 31*24*time.Hour)

	tb.press(1, adData(flow.ActionRenew, expired))
	assert.Equal(t, []string{enText(msgAdRenewLimit, model.FreeRoleListingLimit)}, tb.sentTexts())

	ad, err := tb.store.GetAd(ctx, expired)
	require.NoError(t, err)
	assert.False(t, ad.IsActive(time.Now()))

	tb.press(1, adData(flow.ActionDelete, active[0]))
	tb.sent()
	tb.press(1, adData(flow.ActionRenew, expired))
	assert.Equal(t, []string{enText(msgAdRenewed, "Old flat", 30)}, tb.sentTexts())
}

func TestAdAction_RenewRejected(t *testing.T) {
	tb := newTestBot(t)
	tb.register(1, model.RoleSeller)
	id := tb.createAd(1, "Spam", model.AdStatusRejected, 31*24*time.Hour)

	tb.press(1, adData(flow.ActionRenew, id))
	assert.Equal(t, []string{enText(msgAdNotFound)}, tb.sentTexts())
}

func TestPaymentHistory(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()
	tb.register(1, model.RoleSeller)

	tb.text(1, "/payments")
	assert.Equal(t, []string{enText(msgPaymentsEmpty)}, tb.sentTexts())

	_, err := tb.store.CreatePendingPayment(ctx, &model.Payment{
		UserID:    1,
		Role:      model.RoleRealtor,
		Plan:      model.Plan1Month,
		Amount:    50000,
		Currency:  "uzs",
		Reference: "REF0000001",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	tb.text(1, "/payments")
	texts := tb.sentTexts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], enText(msgPaymentsHeader))
	assert.Contains(t, texts[0], lookup(model.LangEnglish, paymentStatusKey(model.PaymentPending)))
	assert.Contains(t, texts[0], formatMoney(50000, "uzs"))
	assert.Contains(t, texts[0], "REF0000001")
}

func TestProfile_PaymentHistoryButton(t *testing.T) {
	tb := newTestBot(t)
	tb.register(1, model.RoleSeller)

	tb.text(1, "/profile")
	sent := tb.sent()
	require.Len(t, sent, 1)
	data := callbackData(t, sent[0])
	assert.Equal(t, []string{flow.ChoiceData(flow.PrefixPayments, flow.ActionHistory)}, data)

	tb.press(1, data[0])
	assert.Equal(t, []string{enText(msgPaymentsEmpty)}, tb.sentTexts())
}

func TestRoles(t *testing.T) {
	tb := newTestBot(t)
	tb.register(1, model.RoleSeller)

	tb.text(1, "/roles")
	texts := tb.sentTexts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], enText(msgRolesHeader))
	assert.Contains(t, texts[0], enText(msgRolePaid, "Realtor", formatMoney(50000, "uzs"), 21))
	assert.Contains(t, texts[0], enText(msgRoleFree, "Seller", model.FreeRoleListingLimit, 30))
	assert.Contains(t, texts[0], enText(msgRolesFooter))
}
