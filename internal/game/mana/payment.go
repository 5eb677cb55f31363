package mana

// PaymentPlan is the exact mana a cost would consume from a pool.
type PaymentPlan struct {
	Spent  []Spent
	XValue int
}

// ByKind totals the plan per mana kind.
func (pp *PaymentPlan) ByKind() map[Mana]int {
	out := make(map[Mana]int)
	for _, s := range pp.Spent {
		out[s.Mana]++
	}
	return out
}

// FromSource reports whether any mana in the plan came from source.
func (pp *PaymentPlan) FromSource(source Source) bool {
	for _, s := range pp.Spent {
		if s.Source == source {
			return true
		}
	}
	return false
}

// PaymentResult is the outcome of planning a payment.
type PaymentResult struct {
	Success bool
	Plan    *PaymentPlan
	Reason  string
}

// CalculatePayment works out how cost would be paid from pool without
// changing it.
func CalculatePayment(cost Costs, pool *Pool, xValue int) *PaymentResult {
	if len(cost) == 0 {
		return &PaymentResult{Success: true, Plan: &PaymentPlan{XValue: xValue}}
	}

	spent, err := pool.Clone().Pay(cost, xValue)
	if err != nil {
		return &PaymentResult{Success: false, Reason: err.Error()}
	}
	return &PaymentResult{
		Success: true,
		Plan:    &PaymentPlan{Spent: spent, XValue: xValue},
	}
}

// ExecutePayment spends exactly what plan lists. It is all-or-nothing.
func ExecutePayment(plan *PaymentPlan, pool *Pool) bool {
	if plan == nil {
		return true
	}
	trial := pool.Clone()
	for _, s := range plan.Spent {
		if _, ok := trial.Spend(s.Mana, s.Source); !ok {
			return false
		}
	}
	pool.sourced = trial.sourced
	return true
}

// AutoPayable reports whether cost only has symbols that can be paid
// without a choice: colored or colorless symbols, no generic and no X.
func AutoPayable(cost Costs) bool {
	for _, c := range cost {
		if _, ok := c.Mana(); !ok {
			return false
		}
	}
	return true
}
