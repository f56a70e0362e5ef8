package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/urfave/cli/v2"
	"github.com/vkngwrapper/vkmedia/ports"
)

func devicesCommand() *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "list graphics devices with their queue families, memory types and UUIDs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Usage: "vulkan or sim"},
			&cli.BoolFlag{Name: "json", Usage: "print the listing as JSON"},
		},
		Action: devices,
	}
}

type deviceListing struct {
	graphics     []ports.PhysicalDevice
	computeCount int
	computeNames []string
}

func devices(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}

	logger, err := newLogger(c.App.ErrWriter, cfg)
	if err != nil {
		return err
	}

	drivers, err := openBackend(logger, cfg)
	if err != nil {
		return err
	}

	instance, err := drivers.graphics.CreateInstance()
	if err != nil {
		return errors.Wrap(err, "create graphics instance")
	}
	defer instance.Destroy()

	var listing deviceListing
	listing.graphics, err = instance.PhysicalDevices()
	if err != nil {
		return errors.Wrap(err, "enumerate graphics devices")
	}

	listing.computeCount, err = drivers.compute.DeviceCount()
	if err != nil {
		return errors.Wrap(err, "count compute devices")
	}
	if namer, ok := drivers.compute.(deviceNamer); ok {
		for i := 0; i < listing.computeCount; i++ {
			name, err := namer.DeviceName(i)
			if err != nil {
				return errors.Wrapf(err, "name compute device %d", i)
			}
			listing.computeNames = append(listing.computeNames, name)
		}
	}

	if c.Bool("json") {
		_, err = c.App.Writer.Write(listing.json())
		return err
	}
	listing.print(c.App.Writer)
	return nil
}

func (l deviceListing) print(w io.Writer) {
	for i, device := range l.graphics {
		fmt.Fprintf(w, "graphics device %d: %s\n", i, device.Name())
		if deviceUUID, ok := device.DeviceUUID(); ok {
			fmt.Fprintf(w, "  uuid: %s\n", deviceUUID)
		} else {
			fmt.Fprintln(w, "  uuid: unavailable")
		}

		for _, family := range device.QueueFamilies() {
			fmt.Fprintf(w, "  queue family %d: %d queues, %s\n", family.Index, family.QueueCount, family.Flags)
		}
		for typeIndex, memoryType := range device.MemoryTypes() {
			fmt.Fprintf(w, "  memory type %d: heap %d, %s\n", typeIndex, memoryType.HeapIndex, memoryType.PropertyFlags)
		}
	}

	fmt.Fprintf(w, "compute devices: %d\n", l.computeCount)
	for i, name := range l.computeNames {
		fmt.Fprintf(w, "  compute device %d: %s\n", i, name)
	}
}

func (l deviceListing) json() []byte {
	writer := jwriter.NewWriter()
	json := writer.Object()

	graphics := json.Name("Graphics").Array()
	for i, device := range l.graphics {
		obj := graphics.Object()
		obj.Name("Index").Int(i)
		obj.Name("Name").String(device.Name())
		deviceUUID, ok := device.DeviceUUID()
		obj.Maybe("UUID", ok).String(deviceUUID.String())

		families := obj.Name("QueueFamilies").Array()
		for _, family := range device.QueueFamilies() {
			familyObj := families.Object()
			familyObj.Name("Index").Int(family.Index)
			familyObj.Name("QueueCount").Int(family.QueueCount)
			familyObj.Name("Flags").String(family.Flags.String())
			familyObj.Name("Graphics").Bool(family.SupportsGraphics())
			familyObj.End()
		}
		families.End()

		memoryTypes := obj.Name("MemoryTypes").Array()
		for _, memoryType := range device.MemoryTypes() {
			typeObj := memoryTypes.Object()
			typeObj.Name("HeapIndex").Int(memoryType.HeapIndex)
			typeObj.Name("PropertyFlags").String(memoryType.PropertyFlags.String())
			typeObj.End()
		}
		memoryTypes.End()

		obj.End()
	}
	graphics.End()

	compute := json.Name("Compute").Object()
	compute.Name("DeviceCount").Int(l.computeCount)
	names := compute.Name("Names").Array()
	for _, name := range l.computeNames {
		names.String(name)
	}
	names.End()
	compute.End()

	json.End()
	return append(writer.Bytes(), '\n')
}
