package usecase

import (
	"github.com/onsiteclub/account-service/internal/domain/entity"
	"github.com/onsiteclub/account-service/internal/domain/model"
)

// Gate computes the three-way checkout branch from the identity and the
// subscription snapshot. It is deterministic in its inputs and keeps no
// state; the record is valid for this one decision only and is not
// re-read before the checkout call. A row changing in between is
// re-validated by the billing provider itself.
//
// A missing record (user never subscribed) gates the same way as an
// explicit "none" status.
func Gate(app string, user *entity.User, record *model.Subscription) entity.GateDecision {
	if user == nil {
		return entity.GateDecision{
			Action:     entity.GateRequireLogin,
			ReturnPath: "/checkout/" + app,
		}
	}

	if record != nil && record.Status.Entitled() {
		return entity.GateDecision{Action: entity.GateRedirectToManage}
	}

	decision := entity.GateDecision{Action: entity.GateProceedToCheckout}
	if record != nil {
		decision.ExistingCustomerID = record.StripeCustomerID
	}
	return decision
}
