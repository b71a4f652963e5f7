package client

import (
	"encoding/json"

	pkgerrors "github.com/pkg/errors"

	"github.com/powerstat/powerstat/pkg/report"
)

func (c *Client) GetReport() (*report.Report, error) {
	ret, err := c.Get("/report")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get battery report")
	}

	r, err := report.DecodeJSON([]byte(ret))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal battery report")
	}

	return r, nil
}

func (c *Client) GetBatteries() ([]report.Battery, error) {
	ret, err := c.Get("/batteries")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get batteries")
	}

	var bats []report.Battery
	if err := json.Unmarshal([]byte(ret), &bats); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal batteries")
	}

	return bats, nil
}

func (c *Client) GetRuntime() (*report.Runtime, error) {
	ret, err := c.Get("/runtime")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get runtime")
	}

	var rt report.Runtime
	if err := json.Unmarshal([]byte(ret), &rt); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal runtime")
	}

	return &rt, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}

	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}

	return v, nil
}
