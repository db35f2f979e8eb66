package user

import "marketplace/domain/shared"

const (
	EventUserRegistered   = "user.registered"
	EventArtisanOnboarded = "user.artisan_onboarded"
)

// UserRegisteredEvent 用户注册事件
type UserRegisteredEvent struct {
	shared.BaseEvent
	name  string
	email string
}

func NewUserRegisteredEvent(userID, name, email string) *UserRegisteredEvent {
	return &UserRegisteredEvent{BaseEvent: shared.NewBaseEvent(userID), name: name, email: email}
}

func (e *UserRegisteredEvent) EventName() string { return EventUserRegistered }
func (e *UserRegisteredEvent) UserID() string    { return e.GetAggregateID() }
func (e *UserRegisteredEvent) Name() string      { return e.name }
func (e *UserRegisteredEvent) Email() string     { return e.email }

func (e *UserRegisteredEvent) Payload() map[string]any {
	return map[string]any{"user_id": e.UserID(), "name": e.name, "email": e.email}
}

// ArtisanOnboardedEvent 开通卖家事件
type ArtisanOnboardedEvent struct {
	shared.BaseEvent
}

func NewArtisanOnboardedEvent(userID string) *ArtisanOnboardedEvent {
	return &ArtisanOnboardedEvent{BaseEvent: shared.NewBaseEvent(userID)}
}

func (e *ArtisanOnboardedEvent) EventName() string { return EventArtisanOnboarded }
func (e *ArtisanOnboardedEvent) UserID() string    { return e.GetAggregateID() }

func (e *ArtisanOnboardedEvent) Payload() map[string]any {
	return map[string]any{"user_id": e.UserID()}
}
