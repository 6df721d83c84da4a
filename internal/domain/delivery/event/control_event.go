package event

const ConnectionEstablishedOp = "CONNECTION_ESTABLISHED"

type ConnectionEstablishedEvent struct {
	ClientID  string `json:"clientId"`
	Timestamp int64  `json:"timestamp"`
}

func (*ConnectionEstablishedEvent) Op() string {
	return ConnectionEstablishedOp
}

func (*ConnectionEstablishedEvent) payloadField() {}
