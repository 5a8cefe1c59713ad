package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/carevolve/triage-rl/data"
	"github.com/carevolve/triage-rl/types"
)

// PatientRequest carries one raw patient, pre-encoding.
type PatientRequest struct {
	Age           float64 `json:"age" binding:"required"`
	Gender        string  `json:"gender" binding:"required"`
	DiastolicBP   float64 `json:"diastolic_bp" binding:"required"`
	HeartRate     float64 `json:"heart_rate" binding:"required"`
	MeanBP        float64 `json:"mean_bp" binding:"required"`
	RespRate      float64 `json:"resp_rate" binding:"required"`
	SpO2          float64 `json:"spo2" binding:"required"`
	SysBP         float64 `json:"sys_bp" binding:"required"`
	Temperature   float64 `json:"temperature" binding:"required"`
	AdmissionType string  `json:"admission_type" binding:"required"`
}

// DecisionResponse is the triage recommendation for one patient.
type DecisionResponse struct {
	Recommendation      string             `json:"recommendation"`
	Confidence          float64            `json:"confidence"`
	ActionProbabilities map[string]float64 `json:"action_probabilities"`
	ValueEstimate       float64            `json:"value_estimate"`
	RiskScore           float64            `json:"risk_score"`
	Reasoning           string             `json:"reasoning"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "triage decision service is running", "status": "healthy"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"components": gin.H{
			"agent":       s.agent != nil,
			"pipeline":    s.pipeline != nil,
			"environment": s.environment != nil,
		},
	})
}

func (s *Server) handlePredict(c *gin.Context) {
	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state := s.pipeline.Encode(data.PatientRecord{
		DiastolicBP:   req.DiastolicBP,
		HeartRate:     req.HeartRate,
		MeanBP:        req.MeanBP,
		RespRate:      req.RespRate,
		SpO2:          req.SpO2,
		SysBP:         req.SysBP,
		Temperature:   req.Temperature,
		Age:           req.Age,
		Gender:        req.Gender,
		AdmissionType: req.AdmissionType,
	})

	action, probs, value, err := s.agent.Predict(state)
	if err != nil {
		status := http.StatusInternalServerError
		var dimErr *types.DimensionMismatchError
		if errors.As(err, &dimErr) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	probMap := make(map[string]float64, len(probs))
	for i, p := range probs {
		probMap[types.Action(i).String()] = p
	}
	risk := riskScore(req)
	c.JSON(http.StatusOK, DecisionResponse{
		Recommendation:      action.String(),
		Confidence:          probs[action],
		ActionProbabilities: probMap,
		ValueEstimate:       value,
		RiskScore:           risk,
		Reasoning:           reasoning(req, action, risk),
	})
}

var trainMu sync.Mutex

func (s *Server) handleTrain(c *gin.Context) {
	if s.environment == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no training environment configured"})
		return
	}
	trainMu.Lock()
	defer trainMu.Unlock()

	total := 0.0
	for i := 0; i < s.trainBatch; i++ {
		state, err := s.environment.Reset()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		action, logProb, value, err := s.agent.SelectAction(state)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		res, err := s.environment.Step(action)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := s.agent.StoreTransition(types.Transition{
			State:   state,
			Action:  action,
			Reward:  res.Reward,
			LogProb: logProb,
			Value:   value,
			Done:    res.Done,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		total += res.Reward
	}

	res, err := s.agent.Update()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "training batch completed",
		"episodes":     s.trainBatch,
		"total_reward": total,
		"policy_loss":  res.PolicyLoss,
		"value_loss":   res.ValueLoss,
	})
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.agent.Metrics())
}

// riskScore is a coarse rule-based score on the raw vitals, reported next to
// the model output so clinicians can sanity check the recommendation.
func riskScore(p PatientRequest) float64 {
	risk := 0.0
	switch {
	case p.Age > 80:
		risk += 3
	case p.Age > 65:
		risk += 2
	}
	if p.HeartRate > 120 || p.HeartRate < 50 {
		risk += 2
	}
	switch {
	case p.SpO2 < 90:
		risk += 3
	case p.SpO2 < 95:
		risk += 1
	}
	if p.SysBP > 180 || p.SysBP < 90 {
		risk += 2
	}
	if p.RespRate > 30 {
		risk += 2
	}
	if p.Temperature > 101 || p.Temperature < 95 {
		risk += 1
	}
	return risk
}

func reasoning(p PatientRequest, action types.Action, risk float64) string {
	factors := make([]string, 0, 4)
	if p.Age > 65 {
		factors = append(factors, "advanced age")
	}
	if p.HeartRate > 120 || p.HeartRate < 50 {
		factors = append(factors, "abnormal heart rate")
	}
	if p.SpO2 < 95 {
		factors = append(factors, "low oxygen saturation")
	}
	if p.SysBP > 180 || p.SysBP < 90 {
		factors = append(factors, "abnormal blood pressure")
	}
	if len(factors) == 0 {
		return fmt.Sprintf("%s recommended: vitals within normal ranges (risk score %.0f)", action, risk)
	}
	return fmt.Sprintf("%s recommended based on %s (risk score %.0f)", action, strings.Join(factors, ", "), risk)
}
