// Package config loads the gateway's flat key/value directive file: one
// package-level struct with one field per key. The gateway's directives
// read closer to an .ini/properties file than JSON, so Load is a small
// line-oriented parser rather than encoding/json.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// PredefinedTopic is one `mqttsn_predefined_topic` directive.
type PredefinedTopic struct {
	ClientID string
	Topic    string
	TopicID  uint16
}

// AuthEntry is one `mqttsn_auth` directive.
type AuthEntry struct {
	ClientID string
	Username string
	Password string
}

// TopicIDRange is the `mqttsn_topic_id_alloc_range` directive.
type TopicIDRange struct {
	Min, Max uint16
}

// BrokerTCP is the `mqtt_broker_tcp` directive.
type BrokerTCP struct {
	Address string
	Port    uint16
}

// Config is the flat set of gateway configuration directives, one exported
// field per directive key.
type Config struct {
	GwID                   uint8
	AdvertisePeriodS       uint16
	RetryPeriodMs          uint32
	RetryCount             uint32
	DefaultClientID        string
	PubOnlyKeepAliveS      uint16
	SleepingClientMsgLimit int
	PredefinedTopics       []PredefinedTopic
	Auth                   []AuthEntry
	TopicIDAllocRange      TopicIDRange
	BrokerTCP              BrokerTCP
}

// Default returns a Config carrying the same defaults session.NewState
// uses, so a directive file only needs to state what it overrides.
func Default() *Config {
	return &Config{
		RetryPeriodMs:     10000,
		RetryCount:        3,
		PubOnlyKeepAliveS: 60,
		TopicIDAllocRange: TopicIDRange{Min: 1, Max: 0xFFFE},
	}
}

// Load reads a directive file: one key followed by one-or-more
// space-separated values per line. Blank lines and lines starting with '#'
// are skipped. mqttsn_predefined_topic and mqttsn_auth may repeat.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		key, values := fields[0], fields[1:]
		if err := cfg.apply(key, values); err != nil {
			return nil, fmt.Errorf("config: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(key string, values []string) error {
	need := func(n int) error {
		if len(values) != n {
			return fmt.Errorf("%s: expected %d value(s), got %d", key, n, len(values))
		}
		return nil
	}

	switch key {
	case "mqttsn_gw_id":
		if err := need(1); err != nil {
			return err
		}
		n, err := strconv.ParseUint(values[0], 10, 8)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.GwID = uint8(n)
	case "mqttsn_advertise":
		if err := need(1); err != nil {
			return err
		}
		n, err := strconv.ParseUint(values[0], 10, 16)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.AdvertisePeriodS = uint16(n)
	case "mqttsn_retry_period":
		if err := need(1); err != nil {
			return err
		}
		n, err := strconv.ParseUint(values[0], 10, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.RetryPeriodMs = uint32(n)
	case "mqttsn_retry_count":
		if err := need(1); err != nil {
			return err
		}
		n, err := strconv.ParseUint(values[0], 10, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.RetryCount = uint32(n)
	case "mqttsn_default_client_id":
		if err := need(1); err != nil {
			return err
		}
		c.DefaultClientID = values[0]
	case "mqttsn_pub_only_keep_alive":
		if err := need(1); err != nil {
			return err
		}
		n, err := strconv.ParseUint(values[0], 10, 16)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.PubOnlyKeepAliveS = uint16(n)
	case "mqttsn_sleeping_client_msg_limit":
		if err := need(1); err != nil {
			return err
		}
		n, err := strconv.Atoi(values[0])
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.SleepingClientMsgLimit = n
	case "mqttsn_predefined_topic":
		if err := need(3); err != nil {
			return err
		}
		id, err := strconv.ParseUint(values[2], 10, 16)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.PredefinedTopics = append(c.PredefinedTopics, PredefinedTopic{
			ClientID: values[0], Topic: values[1], TopicID: uint16(id),
		})
	case "mqttsn_auth":
		if err := need(3); err != nil {
			return err
		}
		c.Auth = append(c.Auth, AuthEntry{ClientID: values[0], Username: values[1], Password: values[2]})
	case "mqttsn_topic_id_alloc_range":
		if err := need(2); err != nil {
			return err
		}
		min, err := strconv.ParseUint(values[0], 10, 16)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		max, err := strconv.ParseUint(values[1], 10, 16)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.TopicIDAllocRange = TopicIDRange{Min: uint16(min), Max: uint16(max)}
	case "mqtt_broker_tcp":
		if err := need(2); err != nil {
			return err
		}
		port, err := strconv.ParseUint(values[1], 10, 16)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.BrokerTCP = BrokerTCP{Address: values[0], Port: uint16(port)}
	default:
		return fmt.Errorf("unknown directive %q", key)
	}
	return nil
}
