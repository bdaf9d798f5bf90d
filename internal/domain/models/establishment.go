package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Establishment is a farm registered in the platform, identified by its cuig.
type Establishment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name          string             `bson:"name" json:"name" binding:"required"`
	Location      string             `bson:"location" json:"location"`
	Cuig          string             `bson:"cuig" json:"cuig" binding:"required"`
	Phone         string             `bson:"phone" json:"phone"`
	Email         string             `bson:"email" json:"email"`
	OwnerUserName string             `bson:"owner_username" json:"ownerUserName" binding:"required"`
	CreationDate  time.Time          `bson:"creation_date" json:"creationDate"`
	Subscriptions []Subscription     `bson:"subscriptions" json:"subscriptions,omitempty"`
}

// ActiveSubscription returns the subscription with the latest starting date
// that has already started at now, or nil.
func (e Establishment) ActiveSubscription(now time.Time) *Subscription {
	var active *Subscription
	for i := range e.Subscriptions {
		sub := &e.Subscriptions[i]
		if sub.StartingDate.After(now) {
			continue
		}
		if active == nil || sub.StartingDate.After(active.StartingDate) {
			active = sub
		}
	}
	return active
}

// Subscription binds an establishment to a subscription type from a date.
type Subscription struct {
	StartingDate     time.Time        `bson:"starting_date" json:"startingDate"`
	SubscriptionType SubscriptionType `bson:"subscription_type" json:"subscriptionType"`
}

// EndingDate is the starting date plus the type's duration in days.
func (s Subscription) EndingDate() time.Time {
	return s.StartingDate.AddDate(0, 0, int(s.SubscriptionType.Duration))
}

// SubscriptionType is a commercial plan. Several documents may share a name;
// the most recently created one is the current plan.
type SubscriptionType struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name           string             `bson:"name" json:"name" binding:"required"`
	Price          int64              `bson:"price" json:"price"`
	Duration       int64              `bson:"duration" json:"duration"`
	Description    string             `bson:"description" json:"description"`
	CreationDate   time.Time          `bson:"creation_date" json:"creationDate"`
	ExpirationDate *time.Time         `bson:"expiration_date,omitempty" json:"expirationDate,omitempty"`
}

// IsExpired reports whether the type stopped being offered at or before now.
func (t SubscriptionType) IsExpired(now time.Time) bool {
	return t.ExpirationDate != nil && !t.ExpirationDate.After(now)
}

// Audit is a trace of one request served by the administration module.
type Audit struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RequestBody       string             `bson:"request_body,omitempty" json:"requestBody,omitempty"`
	ResponseBody      string             `bson:"response_body,omitempty" json:"responseBody,omitempty"`
	LocalAddress      string             `bson:"local_address,omitempty" json:"localAddress,omitempty"`
	URI               string             `bson:"uri" json:"uri"`
	ResponseStatus    string             `bson:"response_status" json:"responseStatus"`
	HTTPMethod        string             `bson:"http_method" json:"httpMethod"`
	EstablishmentCuig string             `bson:"establishment_cuig" json:"establishmentCuig"`
	Method            string             `bson:"method,omitempty" json:"method,omitempty"`
	Role              string             `bson:"role,omitempty" json:"role,omitempty"`
	RequestorUsername string             `bson:"requestor_username" json:"requestorUsername"`
	AuditDate         time.Time          `bson:"audit_date" json:"auditDate"`
	Module            string             `bson:"module" json:"module"`
}
