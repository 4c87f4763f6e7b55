package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/chat"
	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/extract"
	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/history"
	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/store"
	"go.uber.org/zap"
)

const sessionCookie = "chat_session"

type Handler struct {
	sessions  *store.Manager
	assembler *chat.Assembler
	logger    *zap.Logger
	maxBody   int64
}

func NewHandler(sessions *store.Manager, assembler *chat.Assembler, maxBody int64, logger *zap.Logger) *Handler {
	return &Handler{
		sessions:  sessions,
		assembler: assembler,
		logger:    logger,
		maxBody:   maxBody,
	}
}

// Register wires every API route onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/message", h.HandleMessage)
	mux.HandleFunc("/api/messages", h.GetMessages)
	mux.HandleFunc("/api/conversations", h.Conversations)
	mux.HandleFunc("/api/conversations/search", h.SearchConversations)
	mux.HandleFunc("/api/conversations/select", h.SelectConversation)
	mux.HandleFunc("/api/conversations/clear", h.ClearConversation)
	mux.HandleFunc("/api/history/reset", h.ResetHistory)
	mux.HandleFunc("/api/session", h.HandleSession)
}

// session returns the caller's session, creating one (and setting the
// cookie) on first contact.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *store.Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := h.sessions.Session(c.Value); ok {
			return sess
		}
	}
	sess := h.sessions.NewSession()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

type MessageRequest struct {
	Content string `json:"content"`
}

type MessageResponse struct {
	ChatID   string            `json:"chat_id"`
	Title    string            `json:"title"`
	Messages []RenderedMessage `json:"messages"`
}

func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := h.session(w, r)

	content, attachments, err := h.parseTurn(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if content == "" && len(attachments) == 0 {
		http.Error(w, "Message content or attachments required", http.StatusBadRequest)
		return
	}

	result, err := h.assembler.RunTurn(r.Context(), sess, content, attachments)
	if errors.Is(err, chat.ErrTurnInFlight) {
		http.Error(w, "A turn is already in progress", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("Failed to run turn", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if result.ExtractionErrs != nil {
		h.logger.Warn("turn completed with extraction failures",
			zap.String("chat_id", result.Chat.ID),
			zap.Error(result.ExtractionErrs))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(MessageResponse{
		ChatID:   result.Chat.ID,
		Title:    result.Chat.Title,
		Messages: renderMessages(result.Appended),
	}); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// parseTurn reads the typed content and attachments from either a multipart
// form (attachments present) or a plain JSON body.
func (h *Handler) parseTurn(r *http.Request) (string, []extract.Document, error) {
	ct := r.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(ct); err == nil && mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.maxBody); err != nil {
			return "", nil, err
		}
		content := strings.TrimSpace(r.FormValue("content"))

		var docs []extract.Document
		if r.MultipartForm != nil {
			for _, header := range r.MultipartForm.File["attachments"] {
				doc, err := readAttachment(header)
				if err != nil {
					return "", nil, err
				}
				docs = append(docs, doc)
			}
		}
		return content, docs, nil
	}

	var req MessageRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, h.maxBody)).Decode(&req); err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(req.Content), nil, nil
}

func readAttachment(header *multipart.FileHeader) (extract.Document, error) {
	file, err := header.Open()
	if err != nil {
		return extract.Document{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return extract.Document{}, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(header.Filename)); byExt != "" {
			mimeType = byExt
		}
	}
	return extract.Document{
		Filename: header.Filename,
		MIMEType: mimeType,
		Data:     data,
	}, nil
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := h.session(w, r)

	active := sess.Active()
	if active == nil {
		http.Error(w, "No active chat", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(MessageResponse{
		ChatID:   active.ID,
		Title:    active.Title,
		Messages: renderMessages(sess.Working()),
	}); err != nil {
		h.logger.Error("Failed to encode messages", zap.Error(err))
	}
}

type ChatSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Active    bool      `json:"active"`
}

type CategoryResponse struct {
	Name  string        `json:"name"`
	Chats []ChatSummary `json:"chats"`
}

// Conversations serves the sidebar: GET returns the categorized history,
// POST starts a new chat (reusing an existing empty one).
func (h *Handler) Conversations(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	switch r.Method {
	case http.MethodGet:
		activeID := ""
		if active := sess.Active(); active != nil {
			activeID = active.ID
		}

		// Empty bands are omitted from the sidebar payload.
		var categories []CategoryResponse
		for _, group := range history.Categorize(sess.Chats(), time.Now()) {
			if len(group.Chats) == 0 {
				continue
			}
			cat := CategoryResponse{Name: group.Name}
			for _, c := range group.Chats {
				cat.Chats = append(cat.Chats, ChatSummary{
					ID:        c.ID,
					Title:     c.Title,
					CreatedAt: c.CreatedAt,
					Active:    c.ID == activeID,
				})
			}
			categories = append(categories, cat)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(categories); err != nil {
			h.logger.Error("Failed to encode conversations", zap.Error(err))
		}

	case http.MethodPost:
		created := sess.CreateChat()
		h.logger.Debug("chat activated", zap.String("chat_id", created.ID))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChatSummary{
			ID:        created.ID,
			Title:     created.Title,
			CreatedAt: created.CreatedAt,
			Active:    true,
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) SearchConversations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := h.session(w, r)

	activeID := ""
	if active := sess.Active(); active != nil {
		activeID = active.ID
	}

	results := make([]ChatSummary, 0)
	for _, c := range history.Search(sess.Chats(), r.URL.Query().Get("q")) {
		results = append(results, ChatSummary{
			ID:        c.ID,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			Active:    c.ID == activeID,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		h.logger.Error("Failed to encode search results", zap.Error(err))
	}
}

func (h *Handler) SelectConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := h.session(w, r)

	chatID := r.URL.Query().Get("chat_id")
	if chatID == "" {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}
	if err := sess.SetActive(chatID); err != nil {
		if errors.Is(err, store.ErrChatNotFound) {
			http.Error(w, "Chat not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to select chat", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ClearConversation empties the active chat's messages in place.
func (h *Handler) ClearConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := h.session(w, r)

	active := sess.Active()
	if active == nil {
		http.Error(w, "No active chat", http.StatusInternalServerError)
		return
	}
	if err := sess.ClearMessages(active.ID); err != nil {
		h.logger.Error("Failed to clear chat", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ResetHistory drops the entire store and leaves one fresh empty chat.
func (h *Handler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := h.session(w, r)

	fresh := sess.Reset()
	h.logger.Info("history reset", zap.String("session_id", sess.ID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChatSummary{
		ID:        fresh.ID,
		Title:     fresh.Title,
		CreatedAt: fresh.CreatedAt,
		Active:    true,
	})
}

// HandleSession destroys the caller's session on DELETE.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		h.sessions.DestroySession(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusOK)
}
