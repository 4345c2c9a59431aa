package dto

import "github.com/ArrobaLab/maipro/internal/domain"

type SubscribeRequest struct {
	Subscription *domain.PushSubscription `json:"subscription"`
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type PublicKeyResponse struct {
	PublicKey string `json:"publicKey"`
}
