package telemetry

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/hand-particles/internal/sim"
	"github.com/iburimskiy/hand-particles/internal/vec"
)

type fixedSource struct {
	snap sim.Snapshot
}

func (f fixedSource) Snapshot() sim.Snapshot { return f.snap }

func sample() fixedSource {
	palm := vec.Vec3{X: 12, Y: -4, Z: 3}
	return fixedSource{snap: sim.Snapshot{
		Frame:            42,
		HandDetected:     true,
		Hands:            1,
		CurrentExpansion: 1.2,
		TargetExpansion:  2,
		CurrentHue:       230,
		TargetHue:        240,
		PalmCenter:       &palm,
		HandOpenness:     0.2,
		HandVelocity:     vec.Vec3{X: 1.5, Y: -0.5},
		MeanSpeed:        3.25,
	}}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest("GET", path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	rr := get(t, NewHandler(sample(), nil), "/health")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetTelemetry(t *testing.T) {
	rr := get(t, NewHandler(sample(), func() float64 { return 59.5 }), "/telemetry")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 59.5, resp["fps"])
	assert.Equal(t, true, resp["hand_detected"])
	assert.Equal(t, 1.2, resp["current_expansion"])
	assert.Equal(t, 240.0, resp["target_hue"])
	assert.Equal(t, 0.2, resp["hand_openness"])
	palm, ok := resp["palm_center"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 12.0, palm["x"])
	vel, ok := resp["hand_velocity"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1.5, vel["x"])
}

func TestTelemetryOmitsPalmWithoutHand(t *testing.T) {
	rr := get(t, NewHandler(fixedSource{}, nil), "/telemetry")
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	_, present := resp["palm_center"]
	assert.False(t, present)
	assert.Equal(t, false, resp["hand_detected"])
}

func TestGetMetrics(t *testing.T) {
	rr := get(t, NewHandler(sample(), func() float64 { return 60 }), "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, "hand_particles_frames_total 42")
	assert.Contains(t, text, "hand_particles_hand_detected 1")
	assert.Contains(t, text, "hand_particles_expansion_target 2")
	assert.Contains(t, text, "hand_particles_hue_current 230")
	assert.Contains(t, text, `hand_particles_hand_velocity{axis="x"} 1.5`)
	assert.Contains(t, text, "hand_particles_mean_speed 3.25")
	assert.Contains(t, text, "hand_particles_fps 60")
}

func TestUnknownRoute(t *testing.T) {
	rr := get(t, NewHandler(sample(), nil), "/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
