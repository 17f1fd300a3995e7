// Package auth resolves the calling actor and checks role capabilities.
package auth

import (
	"fmt"

	"supplyhub/internal/domain"
	apperrors "supplyhub/internal/errors"
)

type Capability string

const (
	CapOrderCreate          Capability = "order:create"
	CapOrderReadOwn         Capability = "order:read:own"
	CapOrderPay             Capability = "order:pay"
	CapOrderShip            Capability = "order:ship"
	CapOrderConfirmDelivery Capability = "order:confirm-delivery"
	CapOrderListDelivered   Capability = "order:list-delivered"
	CapOrderList            Capability = "order:list"
	CapOrderReadAny         Capability = "order:read:any"
	CapOrderPurge           Capability = "order:purge"
	CapInventoryRead        Capability = "inventory:read"
	CapInventoryAdjust      Capability = "inventory:adjust"
	CapSummaryRead          Capability = "summary:read"
	CapProductWrite         Capability = "product:write"
)

var grants = map[domain.Role][]Capability{
	domain.RoleBuyer: {
		CapOrderCreate, CapOrderReadOwn, CapOrderPay,
	},
	domain.RoleAdmin: {
		CapOrderPay, CapOrderList, CapOrderReadAny, CapOrderPurge, CapSummaryRead,
	},
	domain.RoleSupplier: {
		CapOrderShip, CapOrderList, CapOrderReadAny, CapProductWrite,
	},
	domain.RoleInspector: {
		CapOrderConfirmDelivery, CapOrderListDelivered, CapOrderList, CapOrderReadAny,
		CapInventoryRead, CapInventoryAdjust,
	},
}

var capabilitySets = buildSets()

func buildSets() map[domain.Role]map[Capability]struct{} {
	sets := make(map[domain.Role]map[Capability]struct{}, len(grants))
	for role, caps := range grants {
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}
		sets[role] = set
	}
	return sets
}

func Can(role domain.Role, c Capability) bool {
	_, ok := capabilitySets[role][c]
	return ok
}

// Authorize returns a ForbiddenError when the actor's role lacks c.
func Authorize(actor domain.Actor, c Capability) error {
	if Can(actor.Role, c) {
		return nil
	}
	return apperrors.NewForbiddenError(fmt.Sprintf("role %q is not allowed to %s", actor.Role, c))
}
