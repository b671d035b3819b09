package httpserver

import (
	"github.com/gin-gonic/gin"

	"guest-intent-engine/internal/model"
	"guest-intent-engine/pkg/response"
)

type classifyRequest struct {
	Message    string              `json:"message" binding:"required"`
	Recent     []model.ChatMessage `json:"recent"`
	LastIntent string              `json:"last_intent"`

	// Debug adds every keyword candidate to the response.
	Debug bool `json:"debug"`
}

type replyRequest struct {
	Message   string              `json:"message" binding:"required"`
	Intent    string              `json:"intent" binding:"required"`
	Knowledge string              `json:"knowledge"`
	Recent    []model.ChatMessage `json:"recent"`
}

// classify runs the four-tier cascade over one guest message.
func (srv *HTTPServer) classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	conv := model.ConversationContext{
		Recent:     req.Recent,
		LastIntent: req.LastIntent,
	}

	detection, aiResp := srv.detector.ClassifyMessage(c.Request.Context(), req.Message, conv)

	body := gin.H{
		"detection": detection,
		"response":  aiResp,
	}
	if req.Debug {
		body["candidates"] = srv.detector.KeywordCandidates(req.Message)
	}
	response.OK(c, body)
}

// reply generates an answer for an already-classified message.
func (srv *HTTPServer) reply(c *gin.Context) {
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	result := srv.detector.GenerateReplyOnly(c.Request.Context(), req.Intent, req.Knowledge, req.Recent, req.Message)
	response.OK(c, result)
}

// providersStatus reports the chain order and each provider's rate-limit
// bookkeeping.
func (srv *HTTPServer) providersStatus(c *gin.Context) {
	states := srv.llm.Limiter().Snapshot()

	providers := make([]gin.H, 0, len(srv.llm.Providers()))
	for _, p := range srv.llm.Providers() {
		entry := gin.H{
			"id":       p.ID(),
			"name":     p.Name(),
			"model":    p.Model(),
			"priority": p.Priority(),
			"smart":    p.Smart(),
		}
		if state, ok := states[p.ID()]; ok {
			entry["rate_limit"] = state
		}
		providers = append(providers, entry)
	}

	response.OK(c, gin.H{"providers": providers})
}

// resetProviders clears every provider's cooldown and error history.
func (srv *HTTPServer) resetProviders(c *gin.Context) {
	srv.llm.Limiter().ResetAll()
	srv.l.Info(c.Request.Context(), "All provider state reset")
	response.OK(c, gin.H{"reset": true})
}

// resetProvider clears one provider's cooldown and error history.
func (srv *HTTPServer) resetProvider(c *gin.Context) {
	id := c.Param("id")

	for _, p := range srv.llm.Providers() {
		if p.ID() == id {
			srv.llm.Limiter().ResetProvider(id)
			srv.l.Info(c.Request.Context(), "Provider state reset", "provider", id)
			response.OK(c, gin.H{"provider": id, "reset": true})
			return
		}
	}

	response.NotFound(c, "unknown provider: "+id)
}
