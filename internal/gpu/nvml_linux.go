//go:build linux && cgo

package gpu

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// NewNVMLDriver returns a Driver for the NVIDIA device at index.
func NewNVMLDriver(index int) Driver {
	return &nvmlDriver{index: index}
}

type nvmlDriver struct {
	index  int
	device nvml.Device
}

func (d *nvmlDriver) Init() error {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return fmt.Errorf("nvml init: %s", nvml.ErrorString(ret))
	}

	device, ret := nvml.DeviceGetHandleByIndex(d.index)
	if ret != nvml.SUCCESS {
		_ = nvml.Shutdown()
		return fmt.Errorf("nvml device %d: %s", d.index, nvml.ErrorString(ret))
	}

	d.device = device
	return nil
}

func (d *nvmlDriver) Sample() (Stat, error) {
	util, ret := d.device.GetUtilizationRates()
	if ret != nvml.SUCCESS {
		return Stat{}, fmt.Errorf("utilization: %s", nvml.ErrorString(ret))
	}

	stat := Stat{UtilizationPercent: float64(util.Gpu)}

	if temp, ret := d.device.GetTemperature(nvml.TEMPERATURE_GPU); ret == nvml.SUCCESS {
		c := float64(temp)
		stat.TemperatureC = &c
	}

	if mem, ret := d.device.GetMemoryInfo(); ret == nvml.SUCCESS {
		stat.VRAMUsed = mem.Used
		stat.VRAMTotal = mem.Total
		stat.HasVRAM = true
	}

	return stat, nil
}

func (d *nvmlDriver) Shutdown() error {
	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		return fmt.Errorf("nvml shutdown: %s", nvml.ErrorString(ret))
	}
	return nil
}
