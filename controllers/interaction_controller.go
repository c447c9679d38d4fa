package controllers

import (
	"encoding/json"
	"net/http"

	"kindred_server/services"
)

// InteractionController handles like, pass, super-like and block actions.
type InteractionController struct {
	Interactions *services.InteractionService
}

func NewInteractionController(interactions *services.InteractionService) *InteractionController {
	return &InteractionController{Interactions: interactions}
}

type interactionRequest struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}

func decodeInteraction(w http.ResponseWriter, r *http.Request) (interactionRequest, bool) {
	var request interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return request, false
	}
	if request.SenderID == "" || request.ReceiverID == "" {
		http.Error(w, "senderId and receiverId are required", http.StatusBadRequest)
		return request, false
	}
	return request, true
}

// HandleLike records a like and reports whether it completed a match.
func (ic *InteractionController) HandleLike(w http.ResponseWriter, r *http.Request) {
	request, ok := decodeInteraction(w, r)
	if !ok {
		return
	}

	result, err := ic.Interactions.Like(r.Context(), request.SenderID, request.ReceiverID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandlePass records a pass; repeating it is a no-op.
func (ic *InteractionController) HandlePass(w http.ResponseWriter, r *http.Request) {
	request, ok := decodeInteraction(w, r)
	if !ok {
		return
	}

	if err := ic.Interactions.Pass(r.Context(), request.SenderID, request.ReceiverID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Pass recorded"})
}

// HandleSuperLike records a super-like (and its implied like).
func (ic *InteractionController) HandleSuperLike(w http.ResponseWriter, r *http.Request) {
	request, ok := decodeInteraction(w, r)
	if !ok {
		return
	}

	if err := ic.Interactions.SuperLike(r.Context(), request.SenderID, request.ReceiverID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Super like recorded"})
}

// HandleBlock records a block edge.
func (ic *InteractionController) HandleBlock(w http.ResponseWriter, r *http.Request) {
	request, ok := decodeInteraction(w, r)
	if !ok {
		return
	}

	if err := ic.Interactions.Block(r.Context(), request.SenderID, request.ReceiverID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User blocked"})
}
