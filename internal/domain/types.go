package domain

import "github.com/google/uuid"

type UserID = uuid.UUID
type ProviderID = uuid.UUID
type ServiceID = uuid.UUID
type BookingID = uuid.UUID
type ReviewID = uuid.UUID
