package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirchiq/estate-bot/internal/model"
)

func userContext(u *model.User) Context {
	return Context{User: u, Now: testNow}
}

func TestBeginOnboarding(t *testing.T) {
	res := BeginOnboarding(userContext(&model.User{ID: 1, Role: model.RoleBuyer}))

	assert.Equal(t, StageSelectingLanguage, res.State.Stage)
	assert.True(t, res.State.Onboarding)
	assert.Equal(t, []MessageKey{MsgWelcome, MsgChooseLanguage}, promptKeys(res.Prompts))
	assert.Len(t, res.Prompts[1].Choices, len(model.AllLanguages))
}

func TestLanguageSelection(t *testing.T) {
	c := userContext(&model.User{ID: 1, Role: model.RoleBuyer})

	onboarding := BeginOnboarding(c).State
	res := Transition(onboarding, ChoiceEvent("lang:uz"), c)
	assert.Equal(t, StageSelectingRole, res.State.Stage)
	assert.Equal(t, []Effect{UpdateUserLanguage{Language: model.LangUzbek}}, res.Effects)
	assert.Equal(t, []MessageKey{MsgLanguageSet, MsgChooseRole}, promptKeys(res.Prompts))

	standalone := BeginLanguageSelection(c).State
	res = Transition(standalone, ChoiceEvent("lang:en"), c)
	assert.Equal(t, StageIdle, res.State.Stage)
	assert.Equal(t, []Effect{UpdateUserLanguage{Language: model.LangEnglish}}, res.Effects)

	res = Transition(standalone, ChoiceEvent("lang:fr"), c)
	assert.Equal(t, StageSelectingLanguage, res.State.Stage)
	assert.Empty(t, res.Effects)
}

func TestSelectRole(t *testing.T) {
	active := testNow.Add(10 * 24 * time.Hour)

	tests := []struct {
		name       string
		user       *model.User
		pick       model.Role
		wantStage  Stage
		wantKey    MessageKey
		wantEffect []Effect
	}{
		{
			name:      "same role",
			user:      &model.User{Role: model.RoleSeller},
			pick:      model.RoleSeller,
			wantStage: StageIdle,
			wantKey:   MsgRoleUnchanged,
		},
		{
			name:       "free role switches immediately",
			user:       &model.User{Role: model.RoleRealtor, SubscriptionEnd: &active},
			pick:       model.RoleBuyer,
			wantStage:  StageIdle,
			wantKey:    MsgRoleChanged,
			wantEffect: []Effect{UpdateUserRole{Role: model.RoleBuyer}},
		},
		{
			name:       "first paid role grants trial",
			user:       &model.User{Role: model.RoleBuyer},
			pick:       model.RoleAgency,
			wantStage:  StageIdle,
			wantKey:    MsgRoleTrialGranted,
			wantEffect: []Effect{UpdateUserRole{Role: model.RoleAgency, TrialDays: 14}},
		},
		{
			name:      "trial already used needs a plan",
			user:      &model.User{Role: model.RoleBuyer, TrialUsed: true},
			pick:      model.RoleTenant,
			wantStage: StagePlanSelection,
			wantKey:   MsgRoleNeedsPlan,
		},
		{
			name:      "paid to paid with active subscription asks to confirm",
			user:      &model.User{Role: model.RoleRealtor, SubscriptionEnd: &active, TrialUsed: true},
			pick:      model.RoleDeveloper,
			wantStage: StageConfirmingRoleChange,
			wantKey:   MsgConfirmRoleChange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := BeginRoleSelection(userContext(tt.user)).State
			res := Transition(st, ChoiceEvent("role:"+string(tt.pick)), userContext(tt.user))

			assert.Equal(t, tt.wantStage, res.State.Stage)
			require.NotEmpty(t, res.Prompts)
			assert.Equal(t, tt.wantKey, res.Prompts[0].Key)
			assert.Equal(t, tt.wantEffect, res.Effects)
		})
	}
}

func TestConfirmRoleChange(t *testing.T) {
	active := testNow.Add(10 * 24 * time.Hour)
	c := userContext(&model.User{Role: model.RoleRealtor, SubscriptionEnd: &active})
	st := DialogueState{Stage: StageConfirmingRoleChange, PendingRole: model.RoleAgency}

	res := Transition(st, ChoiceEvent("rolechange:confirm"), c)
	assert.Equal(t, StageIdle, res.State.Stage)
	assert.Equal(t, []Effect{UpdateUserRole{Role: model.RoleAgency}}, res.Effects)

	res = Transition(st, ChoiceEvent("rolechange:cancel"), c)
	assert.Equal(t, StageIdle, res.State.Stage)
	assert.Empty(t, res.Effects)
	assert.Equal(t, []MessageKey{MsgRoleChangeCancelled}, promptKeys(res.Prompts))
}

func TestBeginSubscription(t *testing.T) {
	res, err := BeginSubscription(userContext(&model.User{Role: model.RoleSeller}))
	require.NoError(t, err)
	assert.Equal(t, StageSelectingRole, res.State.Stage)
	assert.Equal(t, MsgChooseUpgradeRole, res.Prompts[0].Key)
	assert.Len(t, res.Prompts[0].Choices, len(model.PaidRoles))

	res, err = BeginSubscription(userContext(&model.User{Role: model.RoleRealtor}))
	require.NoError(t, err)
	assert.Equal(t, StagePlanSelection, res.State.Stage)
	assert.Equal(t, model.RoleRealtor, res.State.Payment.TargetRole)
	assert.Equal(t, []MessageKey{MsgSubscriptionStatus, MsgSelectPlan}, promptKeys(res.Prompts))

	_, err = BeginSubscription(Context{Now: testNow})
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func planState(role model.Role) DialogueState {
	return DialogueState{Stage: StagePlanSelection, Payment: &PaymentDraft{TargetRole: role}}
}

func TestPlanSelection_FixedPlan(t *testing.T) {
	c := userContext(&model.User{Role: model.RoleRealtor})

	res := Transition(planState(model.RoleRealtor), ChoiceEvent("plan:3months"), c)

	require.Equal(t, StagePaymentInstructions, res.State.Stage)
	assert.InDelta(t, 50000*3*0.9, res.State.Payment.Amount, 0.001)
	assert.Equal(t, 90, res.State.Payment.DurationDays)
	assert.Equal(t, model.Plan3Months, res.State.Payment.Plan)

	require.Len(t, res.Effects, 1)
	create, ok := res.Effects[0].(CreatePendingPayment)
	require.True(t, ok)
	assert.Same(t, res.State.Payment, create.Draft)
	assert.Same(t, res.State.Payment, res.Prompts[0].Payment)
}

func TestPlanSelection_PricesPerPlan(t *testing.T) {
	c := userContext(&model.User{Role: model.RoleDeveloper})
	tests := map[string]float64{
		"plan:1month":  200000,
		"plan:6months": 200000 * 6 * 0.8,
		"plan:1year":   200000 * 12 * 0.7,
	}
	for data, want := range tests {
		res := Transition(planState(model.RoleDeveloper), ChoiceEvent(data), c)
		assert.InDelta(t, want, res.State.Payment.Amount, 0.001, data)
	}
}

func TestPlanSelection_PercentageCreatesNoPayment(t *testing.T) {
	c := userContext(&model.User{Role: model.RoleAgency})

	res := Transition(planState(model.RoleAgency), ChoiceEvent("plan:percentage"), c)

	assert.Equal(t, StageIdle, res.State.Stage)
	assert.Empty(t, res.Effects)
	assert.Equal(t, []MessageKey{MsgPercentagePlanInfo}, promptKeys(res.Prompts))
}

func TestPlanSelection_InvalidInput(t *testing.T) {
	c := userContext(&model.User{Role: model.RoleAgency})

	res := Transition(planState(model.RoleAgency), ChoiceEvent("plan:forever"), c)
	assert.Equal(t, StagePlanSelection, res.State.Stage)
	assert.Empty(t, res.Effects)

	res = Transition(planState(model.RoleAgency), TextEvent("1 year please"), c)
	assert.Equal(t, StagePlanSelection, res.State.Stage)
	assert.Equal(t, MsgUseButtons, res.Prompts[0].Key)

	res = Transition(planState(model.RoleAgency), ChoiceEvent("plan:cancel"), c)
	assert.Equal(t, StageIdle, res.State.Stage)
	assert.Empty(t, res.Effects)
}

func TestPlanSelection_FreeTargetExpires(t *testing.T) {
	res := Transition(planState(model.RoleBuyer), ChoiceEvent("plan:1month"), userContext(&model.User{}))

	assert.Equal(t, StageIdle, res.State.Stage)
	assert.Equal(t, MsgSessionExpired, res.Prompts[0].Key)
}

func instructionsState() DialogueState {
	return DialogueState{Stage: StagePaymentInstructions, Payment: &PaymentDraft{
		TargetRole:   model.RoleRealtor,
		Plan:         model.Plan1Month,
		Amount:       50000,
		DurationDays: 30,
		PaymentID:    42,
		Reference:    "AB12CD34EF",
	}}
}

func TestPaymentInstructions(t *testing.T) {
	c := userContext(&model.User{Role: model.RoleRealtor})

	res := Transition(instructionsState(), ChoiceEvent("pay:upload"), c)
	assert.Equal(t, StageAwaitingReceipt, res.State.Stage)
	assert.Equal(t, []MessageKey{MsgSendReceipt}, promptKeys(res.Prompts))

	res = Transition(instructionsState(), ChoiceEvent("pay:help"), c)
	assert.Equal(t, StagePaymentInstructions, res.State.Stage)
	assert.Equal(t, []MessageKey{MsgPaymentHelp, MsgPaymentInstructions}, promptKeys(res.Prompts))

	res = Transition(instructionsState(), ChoiceEvent("pay:cancel"), c)
	assert.Equal(t, StageIdle, res.State.Stage)
	assert.Equal(t, []Effect{CancelPayment{PaymentID: 42}}, res.Effects)
}

func TestAwaitingReceipt(t *testing.T) {
	c := userContext(&model.User{Role: model.RoleRealtor})
	st := instructionsState()
	st.Stage = StageAwaitingReceipt

	res := Transition(st, TextEvent("I paid"), c)
	assert.Equal(t, StageAwaitingReceipt, res.State.Stage)
	assert.Empty(t, res.Effects)
	assert.Equal(t, []MessageKey{MsgReceiptExpected, MsgSendReceipt}, promptKeys(res.Prompts))

	res = Transition(st, PhotoEvent(Photo{FileID: "thumb", Width: 90, Height: 90}, Photo{FileID: "receipt", Width: 800, Height: 1200}), c)
	assert.Equal(t, StageIdle, res.State.Stage)
	assert.Nil(t, res.State.Payment)
	assert.Equal(t, []Effect{
		AttachReceipt{PaymentID: 42, FileID: "receipt"},
		NotifyNewPayment{PaymentID: 42, FileID: "receipt"},
	}, res.Effects)
	assert.Equal(t, MsgReceiptReceived, res.Prompts[0].Key)
	assert.Equal(t, []any{"AB12CD34EF"}, res.Prompts[0].Args)
}

func TestPaymentStagesWithoutPaymentExpire(t *testing.T) {
	st := DialogueState{Stage: StageAwaitingReceipt, Payment: &PaymentDraft{TargetRole: model.RoleRealtor}}

	res := Transition(st, PhotoEvent(Photo{FileID: "x", Width: 1, Height: 1}), userContext(&model.User{}))

	assert.Equal(t, StageIdle, res.State.Stage)
	assert.Empty(t, res.Effects)
}

func TestCancel(t *testing.T) {
	res := Cancel(DialogueState{})
	assert.Equal(t, []MessageKey{MsgNothingToCancel}, promptKeys(res.Prompts))

	res = Cancel(listingState(StagePreview, completeDraft()))
	assert.Equal(t, StageIdle, res.State.Stage)
	assert.Empty(t, res.Effects)
	assert.Equal(t, []MessageKey{MsgCancelled}, promptKeys(res.Prompts))

	res = Cancel(instructionsState())
	assert.Equal(t, []Effect{CancelPayment{PaymentID: 42}}, res.Effects)

	res = Cancel(planState(model.RoleRealtor))
	assert.Empty(t, res.Effects)
}
