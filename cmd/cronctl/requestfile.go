package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ErlanBelekov/cronjob-sdk/internal/domain"
	"gopkg.in/yaml.v3"
)

// requestFile is a schedule request as written in a .yaml, .toml or .json file.
// Keys match the demo API's JSON body.
type requestFile struct {
	WebhookURL     string     `json:"webhookUrl"       yaml:"webhookUrl"       toml:"webhookUrl"`
	ScheduleType   string     `json:"scheduleType"     yaml:"scheduleType"     toml:"scheduleType"`
	TimeZone       string     `json:"timeZone"         yaml:"timeZone"         toml:"timeZone"`
	ExecutionTime  *time.Time `json:"executionTime"    yaml:"executionTime"    toml:"executionTime"`
	Pattern        string     `json:"recurringPattern" yaml:"recurringPattern" toml:"recurringPattern"`
	Hour           *int       `json:"hour"             yaml:"hour"             toml:"hour"`
	Minute         *int       `json:"minute"           yaml:"minute"           toml:"minute"`
	DayOfMonth     *int       `json:"dayOfMonth"       yaml:"dayOfMonth"       toml:"dayOfMonth"`
	DayOfWeek      *int       `json:"dayOfWeek"        yaml:"dayOfWeek"        toml:"dayOfWeek"`
	Month          *int       `json:"month"            yaml:"month"            toml:"month"`
	MinuteInterval *int       `json:"minuteInterval"   yaml:"minuteInterval"   toml:"minuteInterval"`
	DayInterval    *int       `json:"dayInterval"      yaml:"dayInterval"      toml:"dayInterval"`
	MonthInterval  *int       `json:"monthInterval"    yaml:"monthInterval"    toml:"monthInterval"`
}

func (f requestFile) toDomain() domain.ScheduleRequest {
	return domain.ScheduleRequest{
		WebhookURL:     f.WebhookURL,
		Kind:           domain.ScheduleKind(f.ScheduleType),
		TimeZone:       f.TimeZone,
		ExecutionTime:  f.ExecutionTime,
		Pattern:        domain.RecurringPattern(f.Pattern),
		Hour:           f.Hour,
		Minute:         f.Minute,
		DayOfMonth:     f.DayOfMonth,
		DayOfWeek:      f.DayOfWeek,
		Month:          f.Month,
		MinuteInterval: f.MinuteInterval,
		DayInterval:    f.DayInterval,
		MonthInterval:  f.MonthInterval,
	}
}

func loadRequest(path string) (domain.ScheduleRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ScheduleRequest{}, fmt.Errorf("read request file: %w", err)
	}
	req, err := parseRequest(data, filepath.Ext(path))
	if err != nil {
		return domain.ScheduleRequest{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return req, nil
}

// parseRequest rejects unknown keys in every format, so a typo like
// "dayofweek" fails loudly instead of being dropped.
func parseRequest(data []byte, ext string) (domain.ScheduleRequest, error) {
	var f requestFile
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return domain.ScheduleRequest{}, fmt.Errorf("decode yaml: %w", err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return domain.ScheduleRequest{}, fmt.Errorf("decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return domain.ScheduleRequest{}, fmt.Errorf("decode toml: unknown key %q", undecoded[0].String())
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return domain.ScheduleRequest{}, fmt.Errorf("decode json: %w", err)
		}
	default:
		return domain.ScheduleRequest{}, fmt.Errorf("unsupported request file extension %q (want .yaml, .yml, .toml or .json)", ext)
	}
	return f.toDomain(), nil
}
