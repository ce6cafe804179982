package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Asset mirrors the API's asset payload.
type Asset struct {
	Name        string `json:"name"`
	Model       string `json:"model"`
	Serial      string `json:"serial"`
	Category    string `json:"category"`
	Hours       int64  `json:"hours"`
	Cycles      int64  `json:"cycles"`
	Environment string `json:"environment"`
	Company     string `json:"company"`
}

// UsageReading mirrors the MQTT usage payload.
type UsageReading struct {
	Serial string `json:"serial"`
	Hours  int64  `json:"hours"`
	Cycles int64  `json:"cycles"`
}

// PlanRequest mirrors the plan generation payload.
type PlanRequest struct {
	Name        string `json:"name"`
	Model       string `json:"model"`
	Serial      string `json:"serial"`
	Category    string `json:"category"`
	Hours       int64  `json:"hours"`
	Cycles      int64  `json:"cycles"`
	Environment string `json:"environment"`
	Company     string `json:"company,omitempty"`
}

var categories = []string{"Pump", "Compressor", "Conveyor", "Generator", "HVAC", "CNC Machine"}

var modelsByCategory = map[string][]string{
	"Pump":        {"X100", "X200", "HydroMax 5"},
	"Compressor":  {"AirPro 90", "CP-440", "TwinScrew 12"},
	"Conveyor":    {"BeltLine 300", "RollerFlex 8"},
	"Generator":   {"GenSet 250", "PowerCore 60"},
	"HVAC":        {"ClimateOne 40", "AHU-900"},
	"CNC Machine": {"MillMaster 3", "LathePro 7"},
}

var environments = []string{"Outdoor", "Indoor", "Coastal", "High-dust", "High-humidity"}

var authToken string

func authorizedPost(url string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 120 * time.Second}
	return client.Do(req)
}

func randomAsset(n int) Asset {
	category := categories[rand.Intn(len(categories))]
	models := modelsByCategory[category]
	return Asset{
		Name:        fmt.Sprintf("%s %d", category, n),
		Model:       models[rand.Intn(len(models))],
		Serial:      fmt.Sprintf("SIM-%04d", n),
		Category:    category,
		Hours:       int64(rand.Intn(5000)),
		Cycles:      int64(rand.Intn(20000)),
		Environment: environments[rand.Intn(len(environments))],
		Company:     "Simulated Industries",
	}
}

func createAsset(apiURL string, asset Asset) error {
	data, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("failed to marshal asset: %w", err)
	}

	resp, err := authorizedPost(apiURL+"/assets", bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	defer resp.Body.Close()

	// Re-runs hit the duplicate serial guard, which is fine.
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("asset creation failed with status: %d", resp.StatusCode)
	}

	log.WithFields(log.Fields{
		"serial":   asset.Serial,
		"category": asset.Category,
		"model":    asset.Model,
	}).Info("Created asset")

	return nil
}

func requestPlan(apiURL string, asset Asset) {
	planReq := PlanRequest{
		Name:        asset.Name,
		Model:       asset.Model,
		Serial:      asset.Serial,
		Category:    asset.Category,
		Hours:       asset.Hours,
		Cycles:      asset.Cycles,
		Environment: asset.Environment,
		Company:     asset.Company,
	}

	data, err := json.Marshal(planReq)
	if err != nil {
		log.WithError(err).Error("Failed to marshal plan request")
		return
	}

	resp, err := authorizedPost(apiURL+"/generate_pm_plan", bytes.NewBuffer(data))
	if err != nil {
		log.WithError(err).Error("Failed to request plan")
		return
	}
	defer resp.Body.Close()

	var response struct {
		Data struct {
			MaintenancePlan []json.RawMessage `json:"maintenance_plan"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		log.WithError(err).Error("Failed to decode plan response")
		return
	}

	log.WithFields(log.Fields{
		"serial": asset.Serial,
		"status": resp.Status,
		"tasks":  len(response.Data.MaintenancePlan),
	}).Info("Requested maintenance plan")
}

// bootstrapAuth registers the demo user, falling back to login when a
// previous run already created it. Returns the issued token.
func bootstrapAuth(apiURL string) (string, error) {
	credentials := map[string]string{
		"username": "sim-planner",
		"email":    "sim-planner@example.com",
		"password": "sim-planner-pass-1",
		"role":     "technician",
	}

	data, err := json.Marshal(credentials)
	if err != nil {
		return "", err
	}

	resp, err := authorizedPost(apiURL+"/auth/register", bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("failed to register: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		loginData, _ := json.Marshal(map[string]string{
			"username": credentials["username"],
			"password": credentials["password"],
		})
		loginResp, err := authorizedPost(apiURL+"/auth/login", bytes.NewBuffer(loginData))
		if err != nil {
			return "", fmt.Errorf("failed to log in: %w", err)
		}
		defer loginResp.Body.Close()
		resp = loginResp
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("auth failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %w", err)
	}
	if result.Token == "" {
		return "", fmt.Errorf("auth response contained no token")
	}
	return result.Token, nil
}

func connectMQTT(broker string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(fmt.Sprintf("pm-simulator-%d", time.Now().UnixNano()))

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return client, nil
}

func publishUsage(client mqtt.Client, topic string, asset *Asset, tickSec float64) {
	// Roughly continuous duty with some idle time.
	asset.Hours += int64(tickSec/3600*float64(rand.Intn(80))) + 1
	asset.Cycles += int64(rand.Intn(20))

	reading := UsageReading{Serial: asset.Serial, Hours: asset.Hours, Cycles: asset.Cycles}
	data, err := json.Marshal(reading)
	if err != nil {
		log.WithError(err).Error("Failed to marshal usage reading")
		return
	}

	if token := client.Publish(topic, 1, false, data); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Error("Failed to publish usage reading")
		return
	}

	log.WithFields(log.Fields{
		"serial": reading.Serial,
		"hours":  reading.Hours,
		"cycles": reading.Cycles,
	}).Info("Published usage reading")
}

func main() {
	authToken = os.Getenv("SIM_AUTH_TOKEN")

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	if authToken == "" {
		token, err := bootstrapAuth(apiURL)
		if err != nil {
			log.WithError(err).Error("Failed to authenticate demo user. Set SIM_AUTH_TOKEN or check the API. Exiting.")
			return
		}
		authToken = token
		log.Info("Authenticated demo user")
	}

	assetCount := 5
	if v := os.Getenv("ASSET_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			assetCount = n
		}
	}

	interval := 10 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"asset_count": assetCount,
		"api_url":     apiURL,
		"interval":    interval,
	}).Info("Starting planner simulation")

	assets := make([]*Asset, 0, assetCount)
	for i := 0; i < assetCount; i++ {
		asset := randomAsset(i + 1)
		if err := createAsset(apiURL, asset); err != nil {
			log.WithError(err).Error("Failed to create asset")
			continue
		}
		assets = append(assets, &asset)
	}

	if len(assets) == 0 {
		log.Error("No assets created. Ensure SIM_AUTH_TOKEN is valid and API is reachable. Exiting.")
		return
	}

	var mqttClient mqtt.Client
	broker := os.Getenv("MQTT_BROKER")
	topic := os.Getenv("MQTT_USAGE_TOPIC")
	if topic == "" {
		topic = "assets/usage"
	}
	if broker != "" {
		client, err := connectMQTT(broker)
		if err != nil {
			log.WithError(err).Warn("MQTT unavailable, skipping usage readings")
		} else {
			mqttClient = client
			defer mqttClient.Disconnect(250)
		}
	}

	for _, asset := range assets {
		requestPlan(apiURL, *asset)
	}

	if mqttClient == nil {
		log.Info("No MQTT broker configured, done after plan requests")
		return
	}

	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		for _, asset := range assets {
			publishUsage(mqttClient, topic, asset, interval.Seconds())
		}
	}
}
