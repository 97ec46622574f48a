package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtoStruct stores a namespace as a google.protobuf.Struct whose fields are
// all string values. Any other field kind on decode is reported as corrupt.
type ProtoStruct struct{}

var _ Codec[Values] = ProtoStruct{}

func (ProtoStruct) Encode(v Values) ([]byte, error) {
	fields := make(map[string]*structpb.Value, len(v))
	for k, s := range v {
		fields[k] = structpb.NewStringValue(s)
	}
	return proto.Marshal(&structpb.Struct{Fields: fields})
}

func (ProtoStruct) Decode(b []byte) (Values, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	out := make(Values, len(s.GetFields()))
	for k, f := range s.GetFields() {
		sv, ok := f.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("codec: field %q is not a string", k)
		}
		out[k] = sv.StringValue
	}
	return out, nil
}
