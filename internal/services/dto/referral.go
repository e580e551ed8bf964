package dto

type ReferralCodeResponse struct {
	Code string `json:"code"`
}
