package events

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodePayload serializes event fields as a google.protobuf.Struct.
// Values must be representable by structpb: strings, bools, numbers,
// nil, and nested maps or slices of those.
func EncodePayload(fields map[string]any) ([]byte, error) {
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("invalid payload field: %w", err)
	}
	return proto.Marshal(msg)
}

// DecodePayload is the inverse of EncodePayload. Numbers come back as float64.
func DecodePayload(payload []byte) (map[string]any, error) {
	var msg structpb.Struct
	if err := proto.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return msg.AsMap(), nil
}
