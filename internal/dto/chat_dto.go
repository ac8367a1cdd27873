package dto

type AudioTurnRequest struct {
	UserId    string `json:"user_id" form:"user_id" validate:"required,uuid"`
	SessionId string `json:"session_id" form:"session_id" validate:"omitempty,uuid"`
}

type TextTurnRequest struct {
	UserId    string `json:"user_id" form:"user_id" validate:"required,uuid"`
	SessionId string `json:"session_id" form:"session_id" validate:"omitempty,uuid"`
	InputText string `json:"input_text" form:"input_text"`
}

type TurnResponse struct {
	Message   string `json:"message"`
	Response  string `json:"response"`
	SessionId string `json:"session_id,omitempty"`
	AudioURL  string `json:"audio_url,omitempty"`
}
