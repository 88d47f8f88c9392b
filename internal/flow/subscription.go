package flow

import (
	"github.com/chirchiq/estate-bot/internal/model"
)

// BeginOnboarding starts language then role selection for a new user.
func BeginOnboarding(c Context) Result {
	st := DialogueState{Stage: StageSelectingLanguage, Onboarding: true}
	return enter(st, c, prompt(MsgWelcome))
}

func BeginLanguageSelection(c Context) Result {
	return enter(DialogueState{Stage: StageSelectingLanguage}, c)
}

func BeginRoleSelection(c Context) Result {
	return enter(DialogueState{Stage: StageSelectingRole}, c)
}

// BeginSubscription lets free-role users pick a paid role, and shows paid-role
// users their status with renewal plans.
func BeginSubscription(c Context) (Result, error) {
	if c.User == nil {
		return Result{}, ErrUnknownUser
	}
	if !c.User.Role.IsPaid() {
		st := DialogueState{Stage: StageSelectingRole}
		return Result{State: st, Prompts: []Prompt{rolePrompt(MsgChooseUpgradeRole, model.PaidRoles)}}, nil
	}
	st := DialogueState{Stage: StagePlanSelection, Payment: &PaymentDraft{TargetRole: c.User.Role}}
	status := prompt(MsgSubscriptionStatus, c.User.Role, c.User.SubscriptionDaysLeft(c.Now))
	return enter(st, c, status), nil
}

func profileTransition(st DialogueState, ev Event, c Context) Result {
	switch st.Stage {
	case StageSelectingLanguage:
		v, ok := choiceValue(ev, PrefixLanguage)
		if !ok {
			return enter(st, c, prompt(MsgUseButtons))
		}
		lang := model.Language(v)
		if !lang.Valid() {
			return enter(st, c)
		}
		res := Result{Effects: []Effect{UpdateUserLanguage{Language: lang}}}
		if st.Onboarding {
			next := DialogueState{Stage: StageSelectingRole, Onboarding: true}
			res.State = next
			res.Prompts = []Prompt{prompt(MsgLanguageSet, lang), stagePrompt(next, c)}
			return res
		}
		res.State = idle()
		res.Prompts = []Prompt{prompt(MsgLanguageSet, lang)}
		return res

	case StageSelectingRole:
		v, ok := choiceValue(ev, PrefixRole)
		if !ok {
			return enter(st, c, prompt(MsgUseButtons))
		}
		role := model.Role(v)
		if !role.Valid() {
			return enter(st, c)
		}
		return selectRole(c, role)

	case StageConfirmingRoleChange:
		v, ok := choiceValue(ev, PrefixRoleChange)
		if !ok {
			return enter(st, c, prompt(MsgUseButtons))
		}
		switch v {
		case ActionConfirm:
			return Result{
				State:   idle(),
				Prompts: []Prompt{prompt(MsgRoleChanged, st.PendingRole)},
				Effects: []Effect{UpdateUserRole{Role: st.PendingRole}},
			}
		case ActionCancel:
			return Result{State: idle(), Prompts: []Prompt{prompt(MsgRoleChangeCancelled, c.User.Role)}}
		}
		return enter(st, c)
	}
	return expired()
}

// selectRole applies the role change rules for a requested role.
func selectRole(c Context, role model.Role) Result {
	user := c.User
	if role == user.Role {
		return Result{State: idle(), Prompts: []Prompt{prompt(MsgRoleUnchanged, role)}}
	}
	if !role.IsPaid() {
		return Result{
			State:   idle(),
			Prompts: []Prompt{prompt(MsgRoleChanged, role)},
			Effects: []Effect{UpdateUserRole{Role: role}},
		}
	}
	// The subscription end date carries over to the new paid role.
	if user.Role.IsPaid() && user.HasActiveSubscription(c.Now) {
		st := DialogueState{Stage: StageConfirmingRoleChange, PendingRole: role}
		return enter(st, c)
	}
	if !user.TrialUsed {
		info, _ := model.RoleInfo(role)
		return Result{
			State:   idle(),
			Prompts: []Prompt{prompt(MsgRoleTrialGranted, role, info.TrialDays)},
			Effects: []Effect{UpdateUserRole{Role: role, TrialDays: info.TrialDays}},
		}
	}
	st := DialogueState{Stage: StagePlanSelection, Payment: &PaymentDraft{TargetRole: role}}
	return enter(st, c, prompt(MsgRoleNeedsPlan, role))
}

func subscriptionTransition(st DialogueState, ev Event, c Context) Result {
	pd := *st.Payment
	st.Payment = &pd

	switch st.Stage {
	case StagePlanSelection:
		return onPlanSelection(st, ev, c)
	case StagePaymentInstructions:
		return onPaymentInstructions(st, ev, c)
	case StageAwaitingReceipt:
		return onAwaitingReceipt(st, ev, c)
	}
	return expired()
}

func onPlanSelection(st DialogueState, ev Event, c Context) Result {
	v, ok := choiceValue(ev, PrefixPlan)
	if !ok {
		return enter(st, c, prompt(MsgUseButtons))
	}
	if v == ActionCancel {
		return Result{State: idle(), Prompts: []Prompt{prompt(MsgCancelled)}}
	}
	plan := model.Plan(v)
	if !plan.Valid() {
		return enter(st, c)
	}
	if !plan.HasFixedPrice() {
		return Result{State: idle(), Prompts: []Prompt{prompt(MsgPercentagePlanInfo, st.Payment.TargetRole)}}
	}
	amount, err := model.PlanAmount(st.Payment.TargetRole, plan)
	if err != nil {
		return expired()
	}
	st.Payment.Plan = plan
	st.Payment.Amount = amount
	st.Payment.DurationDays = plan.DurationDays()
	st.Stage = StagePaymentInstructions

	res := enter(st, c)
	res.Effects = []Effect{CreatePendingPayment{Draft: st.Payment}}
	return res
}

func onPaymentInstructions(st DialogueState, ev Event, c Context) Result {
	v, ok := choiceValue(ev, PrefixPay)
	if !ok {
		return enter(st, c, prompt(MsgUseButtons))
	}
	switch v {
	case ActionUpload:
		st.Stage = StageAwaitingReceipt
		return enter(st, c)
	case ActionHelp:
		return enter(st, c, prompt(MsgPaymentHelp))
	case ActionCancel:
		return Result{
			State:   idle(),
			Prompts: []Prompt{prompt(MsgPaymentCancelled)},
			Effects: []Effect{CancelPayment{PaymentID: st.Payment.PaymentID}},
		}
	}
	return enter(st, c)
}

func onAwaitingReceipt(st DialogueState, ev Event, c Context) Result {
	if ev.Kind != EventPhoto {
		return enter(st, c, prompt(MsgReceiptExpected))
	}
	photo, ok := LargestPhoto(ev.Photos)
	if !ok {
		return enter(st, c, prompt(MsgReceiptExpected))
	}
	id := st.Payment.PaymentID
	return Result{
		State:   idle(),
		Prompts: []Prompt{prompt(MsgReceiptReceived, st.Payment.Reference)},
		Effects: []Effect{
			AttachReceipt{PaymentID: id, FileID: photo.FileID},
			NotifyNewPayment{PaymentID: id, FileID: photo.FileID},
		},
	}
}
