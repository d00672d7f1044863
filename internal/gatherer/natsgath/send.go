package natsgath

type sender struct {
	nc      Publisher
	subject string
}

func (s *sender) Send(body []byte) error {
	return s.nc.Publish(s.subject, body)
}
