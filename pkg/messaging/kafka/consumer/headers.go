package consumer

import "github.com/confluentinc/confluent-kafka-go/v2/kafka"

const HeaderEventType = "event-type"

// GetHeader returns the value of the first header named key.
func GetHeader(headers []kafka.Header, key string) string {
	for _, header := range headers {
		if header.Key == key {
			return string(header.Value)
		}
	}
	return ""
}

func GetEventType(headers []kafka.Header) string {
	return GetHeader(headers, HeaderEventType)
}
