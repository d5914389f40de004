package main

import (
	"errors"
	"strconv"
	"strings"
)

type console struct {
	v *viewer
}

var errArgumentNumber = errors.New("invalid number of arguments")
var errInvalidCommand = errors.New("invalid command")

var consoleCommands = map[string]func(v *viewer, args []string) ([]string, error){
	"orbit": func(v *viewer, args []string) ([]string, error) {
		switch len(args) {
		case 0:
		case 2:
			f, err := parseFloats(args)
			if err != nil {
				return nil, err
			}
			s := v.ctrl.State()
			s.Azimuth, s.Elevation = f[0], f[1]
			v.setState(s)
		default:
			return nil, errArgumentNumber
		}
		s := v.ctrl.State()
		return []string{formatFloats(s.Azimuth, s.Elevation)}, nil
	},
	"momentum": func(v *viewer, args []string) ([]string, error) {
		switch len(args) {
		case 0:
		case 2:
			f, err := parseFloats(args)
			if err != nil {
				return nil, err
			}
			s := v.ctrl.State()
			s.AzimuthRate, s.ElevationRate = f[0], f[1]
			v.setState(s)
		default:
			return nil, errArgumentNumber
		}
		s := v.ctrl.State()
		return []string{formatFloats(s.AzimuthRate, s.ElevationRate)}, nil
	},
	"color": func(v *viewer, args []string) ([]string, error) {
		switch len(args) {
		case 1:
		case 2:
			if err := v.setColor(args[0], args[1]); err != nil {
				return nil, err
			}
		default:
			return nil, errArgumentNumber
		}
		c, err := v.parts.Color(args[0])
		if err != nil {
			return nil, err
		}
		return []string{c}, nil
	},
	"parts": func(v *viewer, args []string) ([]string, error) {
		if len(args) != 0 {
			return nil, errArgumentNumber
		}
		var res []string
		for _, name := range v.parts.Names() {
			c, _ := v.parts.Color(name)
			res = append(res, name+" "+c)
		}
		return res, nil
	},
	"colors": func(v *viewer, args []string) ([]string, error) {
		if len(args) != 0 {
			return nil, errArgumentNumber
		}
		var res []string
		for _, c := range v.cfg.Colors {
			res = append(res, c.Name+" "+c.Color.Hex())
		}
		return res, nil
	},
}

func (c *console) Run(line string) (string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", nil
	}
	fn, ok := consoleCommands[args[0]]
	if !ok {
		return "", errInvalidCommand
	}
	res, err := fn(c.v, args[1:])
	if err != nil {
		return "", err
	}
	return strings.Join(res, "\n"), nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func formatFloats(ff ...float64) string {
	s := make([]string, 0, len(ff))
	for _, f := range ff {
		s = append(s, strconv.FormatFloat(f, 'f', 6, 64))
	}
	return strings.Join(s, " ")
}
