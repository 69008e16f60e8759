package gpio

type simPin struct {
	engaged bool
}

func openSim(config Config) (Pin, error) {
	plog.Debug().Msg("Relay will be simulated")
	return &simPin{}, nil
}

func (p *simPin) Set(engaged bool) error {
	p.engaged = engaged
	printState(engaged)
	return nil
}

func (p *simPin) Close() error {
	plog.Debug().Msg("Simulated relay closing")
	return nil
}

func printState(engaged bool) {
	str := " "
	if engaged {
		str = "#"
	}
	plog.Debug().Str("relay", str).Msg("GPIO")
}
