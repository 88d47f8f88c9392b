package model

import "fmt"

// Plan is a subscription billing option.
type Plan string

const (
	Plan1Month     Plan = "1month"
	Plan3Months    Plan = "3months"
	Plan6Months    Plan = "6months"
	Plan1Year      Plan = "1year"
	PlanPercentage Plan = "percentage"
)

// AllPlans lists plans in menu order.
var AllPlans = []Plan{Plan1Month, Plan3Months, Plan6Months, Plan1Year, PlanPercentage}

type planDetails struct {
	months       int
	discount     float64
	durationDays int
}

var planTable = map[Plan]planDetails{
	Plan1Month:     {months: 1, discount: 1, durationDays: 30},
	Plan3Months:    {months: 3, discount: 0.9, durationDays: 90},
	Plan6Months:    {months: 6, discount: 0.8, durationDays: 180},
	Plan1Year:      {months: 12, discount: 0.7, durationDays: 365},
	PlanPercentage: {durationDays: 30},
}

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	_, ok := planTable[p]
	return ok
}

// HasFixedPrice is false for the percentage-of-deal plan.
func (p Plan) HasFixedPrice() bool {
	d, ok := planTable[p]
	return ok && d.months > 0
}

// DurationDays returns how long a subscription bought with p lasts.
func (p Plan) DurationDays() int {
	return planTable[p].durationDays
}

// Discount returns the multiplier applied to the undiscounted total.
func (p Plan) Discount() float64 {
	return planTable[p].discount
}

// PlanAmount computes the price of plan p for role r: base monthly price
// times months times the plan's discount factor.
func PlanAmount(r Role, p Plan) (float64, error) {
	role, ok := RoleInfo(r)
	if !ok {
		return 0, fmt.Errorf("unknown role %q", r)
	}
	if !role.Paid {
		return 0, fmt.Errorf("role %q has no subscription", r)
	}
	plan, ok := planTable[p]
	if !ok {
		return 0, fmt.Errorf("unknown plan %q", p)
	}
	if plan.months == 0 {
		return 0, fmt.Errorf("plan %q has no fixed price", p)
	}
	return role.MonthlyPrice * float64(plan.months) * plan.discount, nil
}
