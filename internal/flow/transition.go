package flow

import (
	"time"

	"github.com/chirchiq/estate-bot/internal/model"
)

// Context is the read-only information a transition may consult.
type Context struct {
	User *model.User
	Now  time.Time
}

// Result is the outcome of one transition. Effects must be executed in order
// before State is stored.
type Result struct {
	State   DialogueState
	Prompts []Prompt
	Effects []Effect
}

func stay(st DialogueState, prompts ...Prompt) Result {
	return Result{State: st, Prompts: prompts}
}

// enter asks for the input st.Stage expects. It also serves to repeat the
// question after invalid input, with the hint in before.
func enter(st DialogueState, c Context, before ...Prompt) Result {
	return Result{State: st, Prompts: append(before, stagePrompt(st, c))}
}

// expired resets the dialogue when the state lacks data it needs.
func expired() Result {
	return Result{State: idle(), Prompts: []Prompt{{Key: MsgSessionExpired, RemoveKeyboard: true}}}
}

// Transition computes the next state for one event. It performs no I/O.
func Transition(st DialogueState, ev Event, c Context) Result {
	if !hasRequiredDraft(st) {
		return expired()
	}

	switch {
	case st.Stage == StageIdle:
		if ev.Kind == EventChoice {
			return expired()
		}
		return stay(st, prompt(MsgIdleHint))
	case st.Stage == StageSelectingLanguage,
		st.Stage == StageSelectingRole,
		st.Stage == StageConfirmingRoleChange:
		return profileTransition(st, ev, c)
	case st.Stage.IsListing():
		return listingTransition(st, ev, c)
	case st.Stage.IsSubscription():
		return subscriptionTransition(st, ev, c)
	}
	return expired()
}

// Cancel abandons whatever the user is doing.
func Cancel(st DialogueState) Result {
	if st.Stage == StageIdle {
		return Result{State: idle(), Prompts: []Prompt{{Key: MsgNothingToCancel, RemoveKeyboard: true}}}
	}
	res := Result{State: idle(), Prompts: []Prompt{{Key: MsgCancelled, RemoveKeyboard: true}}}
	if id := openPayment(st); id != 0 {
		res.Effects = append(res.Effects, CancelPayment{PaymentID: id})
	}
	return res
}

// Replace is res started on top of st. A pending payment left behind by st
// is cancelled first.
func Replace(st DialogueState, res Result) Result {
	id := openPayment(st)
	if id == 0 || id == openPayment(res.State) {
		return res
	}
	res.Effects = append([]Effect{CancelPayment{PaymentID: id}}, res.Effects...)
	return res
}

func openPayment(st DialogueState) int64 {
	if st.Stage.IsSubscription() && st.Payment != nil {
		return st.Payment.PaymentID
	}
	return 0
}

// hasRequiredDraft reports whether the drafts a stage depends on are present.
func hasRequiredDraft(st DialogueState) bool {
	switch {
	case st.Stage.IsListing():
		return st.Listing != nil
	case st.Stage == StagePlanSelection:
		return st.Payment != nil && st.Payment.TargetRole.IsPaid()
	case st.Stage == StagePaymentInstructions, st.Stage == StageAwaitingReceipt:
		return st.Payment != nil && st.Payment.PaymentID != 0
	case st.Stage == StageConfirmingRoleChange:
		return st.PendingRole.Valid()
	}
	return true
}

// stagePrompt is the message that asks for the input a stage expects.
func stagePrompt(st DialogueState, c Context) Prompt {
	switch st.Stage {
	case StageSelectingLanguage:
		p := prompt(MsgChooseLanguage)
		for _, l := range model.AllLanguages {
			p.Choices = append(p.Choices, []Choice{{Label: LanguageKey(l), Data: ChoiceData(PrefixLanguage, string(l))}})
		}
		return p
	case StageSelectingRole:
		return rolePrompt(MsgChooseRole, model.AllRoles)
	case StageConfirmingRoleChange:
		p := prompt(MsgConfirmRoleChange, c.User.Role, st.PendingRole)
		p.Choices = [][]Choice{{
			{Label: BtnConfirm, Data: ChoiceData(PrefixRoleChange, ActionConfirm)},
			{Label: BtnCancel, Data: ChoiceData(PrefixRoleChange, ActionCancel)},
		}}
		return p
	case StageSelectingType:
		p := prompt(MsgChooseType)
		p.RemoveKeyboard = true
		p.Choices = pairs(model.AllPropertyTypes, func(t model.PropertyType) Choice {
			return Choice{Label: TypeKey(t), Data: ChoiceData(PrefixType, string(t))}
		})
		return p
	case StageEnteringTitle:
		return prompt(MsgEnterTitle, model.MaxTitleLength)
	case StageEnteringDescription:
		return prompt(MsgEnterDescription)
	case StageAnalyzerReview:
		p := prompt(MsgAnalysisReport)
		p.Analysis = st.Listing.Analysis
		p.Choices = [][]Choice{{
			{Label: BtnAnalysisEdit, Data: ChoiceData(PrefixAnalysis, ActionEdit)},
			{Label: BtnAnalysisContinue, Data: ChoiceData(PrefixAnalysis, ActionContinue)},
		}}
		return p
	case StagePriceConfirmation:
		p := prompt(MsgPriceDetected, extractedPrice(st.Listing))
		p.Choices = [][]Choice{{
			{Label: BtnPriceUse, Data: ChoiceData(PrefixPrice, ActionUse)},
			{Label: BtnPriceCustom, Data: ChoiceData(PrefixPrice, ActionCustom)},
		}}
		return p
	case StageEnteringPrice:
		return prompt(MsgEnterPrice)
	case StageEnteringLocation:
		return prompt(MsgEnterLocation)
	case StageCollectingPhotos:
		p := prompt(MsgSendPhotos, model.MaxListingPhotos)
		p.Keyboard = []MessageKey{BtnDone}
		return p
	case StagePreview:
		p := prompt(MsgPreview)
		p.Listing = st.Listing
		p.RemoveKeyboard = true
		p.Choices = [][]Choice{
			{{Label: BtnSubmit, Data: ChoiceData(PrefixPreview, ActionSubmit)}},
			{
				{Label: BtnEdit, Data: ChoiceData(PrefixPreview, ActionEdit)},
				{Label: BtnCancel, Data: ChoiceData(PrefixPreview, ActionCancel)},
			},
		}
		return p
	case StageEditMenu:
		p := prompt(MsgChooseEditField)
		p.Choices = pairs(EditableFields, func(f string) Choice {
			return Choice{Label: FieldKey(f), Data: ChoiceData(PrefixEdit, f)}
		})
		p.Choices = append(p.Choices, []Choice{{Label: BtnBack, Data: ChoiceData(PrefixEdit, ActionBack)}})
		return p
	case StagePlanSelection:
		return planPrompt(st.Payment.TargetRole)
	case StagePaymentInstructions:
		p := prompt(MsgPaymentInstructions)
		p.Payment = st.Payment
		p.Choices = [][]Choice{
			{{Label: BtnUploadReceipt, Data: ChoiceData(PrefixPay, ActionUpload)}},
			{
				{Label: BtnHelp, Data: ChoiceData(PrefixPay, ActionHelp)},
				{Label: BtnCancel, Data: ChoiceData(PrefixPay, ActionCancel)},
			},
		}
		return p
	case StageAwaitingReceipt:
		return prompt(MsgSendReceipt)
	}
	return prompt(MsgIdleHint)
}

func rolePrompt(key MessageKey, roles []model.Role) Prompt {
	p := prompt(key)
	for _, r := range roles {
		p.Choices = append(p.Choices, []Choice{{Label: RoleKey(r), Data: ChoiceData(PrefixRole, string(r))}})
	}
	return p
}

func planPrompt(role model.Role) Prompt {
	info, _ := model.RoleInfo(role)
	p := prompt(MsgSelectPlan, role, info.MonthlyPrice)
	for _, plan := range model.AllPlans {
		c := Choice{Label: PlanKey(plan), Data: ChoiceData(PrefixPlan, string(plan))}
		if amount, err := model.PlanAmount(role, plan); err == nil {
			c.Args = []any{amount}
		}
		p.Choices = append(p.Choices, []Choice{c})
	}
	p.Choices = append(p.Choices, []Choice{{Label: BtnCancel, Data: ChoiceData(PrefixPlan, ActionCancel)}})
	return p
}

// pairs lays buttons out two per row.
func pairs[T any](items []T, choice func(T) Choice) [][]Choice {
	var rows [][]Choice
	for i := 0; i < len(items); i += 2 {
		row := []Choice{choice(items[i])}
		if i+1 < len(items) {
			row = append(row, choice(items[i+1]))
		}
		rows = append(rows, row)
	}
	return rows
}
