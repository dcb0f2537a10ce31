package handlers

import (
	"encoding/json"
	"net/http"
)

const serverError = "server error"

type responseMap map[string]any

func sendOkJsonResponse(w http.ResponseWriter, v any) {
	sendJsonResponse(w, http.StatusOK, v)
}

func sendJsonResponse(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func sendErrorMsg(w http.ResponseWriter, status int, msg string) {
	sendJsonResponse(w, status, map[string]string{"error": msg})
}

func sendInternalServerError(w http.ResponseWriter) {
	sendErrorMsg(w, http.StatusInternalServerError, serverError)
}
