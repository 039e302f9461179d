package livepublisher

import (
	"time"

	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/avro"
)

const envelopeSchema = `{
	"type": "record",
	"name": "EventEnvelope",
	"namespace": "com.devicecatalogue.events",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "eventType", "type": "string"},
		{"name": "subject", "type": "string"},
		{"name": "dataVersion", "type": "string"},
		{"name": "eventTime", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "data", "type": "bytes"}
	]
}`

// ContentType is the value of the content-type header on published messages.
const ContentType = "application/avro"

type envelopeRecord struct {
	ID          string    `avro:"id"`
	EventType   string    `avro:"eventType"`
	Subject     string    `avro:"subject"`
	DataVersion string    `avro:"dataVersion"`
	EventTime   time.Time `avro:"eventTime"`
	Data        []byte    `avro:"data"`
}

var envelopeCodec = avro.MustNewCodec[envelopeRecord](envelopeSchema)
