package order

import (
	"context"

	"farmlink-be/internal/user"
	"farmlink-be/internal/utils"
)

// Actor is the authenticated caller as seen by the access policy.
type Actor struct {
	ID   string
	Role user.Role
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	id, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return Actor{}, false
	}
	return Actor{
		ID:   id,
		Role: user.Role(utils.GetUserRoleFromContext(ctx)),
	}, true
}

// CanRead gates order visibility: buyers see their own orders, farmers see
// orders containing at least one of their products, admins see all.
func (a Actor) CanRead(o *Order) bool {
	switch a.Role {
	case user.RoleAdmin:
		return true
	case user.RoleFarmer:
		return o.involvesFarmer(a.ID)
	default:
		return o.BuyerID == a.ID
	}
}

// CanTransition gates status writes: buyers never transition, farmers only
// on orders they are involved in, admins always.
func (a Actor) CanTransition(o *Order) bool {
	switch a.Role {
	case user.RoleAdmin:
		return true
	case user.RoleFarmer:
		return o.involvesFarmer(a.ID)
	default:
		return false
	}
}

func (o *Order) involvesFarmer(farmerID string) bool {
	for _, item := range o.Items {
		if item.FarmerID == farmerID {
			return true
		}
	}
	return false
}
