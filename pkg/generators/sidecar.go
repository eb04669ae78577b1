package generators

import "github.com/doppelganger/archviz/pkg/diagram"

// SidecarRelayArchitecture shows the relay deployment mode: each service
// version runs behind its own relay sidecar, relays publish request/response
// logs to Kafka, and the monitor consumes the stream to compare behavior
// across versions.
type SidecarRelayArchitecture struct{}

// Name returns the display name of the diagram.
func (SidecarRelayArchitecture) Name() string {
	return "Sidecar Relay Architecture"
}

// FileName returns the output file stem.
func (SidecarRelayArchitecture) FileName() string {
	return "sidecar_relay"
}

// Generate declares the sidecar relay topology.
func (SidecarRelayArchitecture) Generate(c *diagram.Context) error {
	client := c.Node(diagram.KindClient, "Client")

	var relayV1, serviceV1 *diagram.Node
	c.Cluster("Service v1", func(cl *diagram.Cluster) {
		relayV1 = cl.Node(diagram.KindNetwork, "Relay")
		serviceV1 = cl.Node(diagram.KindContainer, "example-service v1")
	})

	var relayV2, serviceV2 *diagram.Node
	c.Cluster("Service v2", func(cl *diagram.Cluster) {
		relayV2 = cl.Node(diagram.KindNetwork, "Relay")
		serviceV2 = cl.Node(diagram.KindContainer, "example-service v2")
	})

	var kafka, monitor, prometheus, grafana *diagram.Node
	c.Cluster("Observation", func(cl *diagram.Cluster) {
		kafka = cl.Node(diagram.KindQueue, "Kafka")
		monitor = cl.Node(diagram.KindService, "Monitor")
		prometheus = cl.Node(diagram.KindMonitoring, "Prometheus")
		grafana = cl.Node(diagram.KindMonitoring, "Dashboard")
	})

	c.Edge(client, relayV1, diagram.WithLabel("HTTP"))
	c.Edge(client, relayV2, diagram.WithLabel("HTTP (mirrored)"), diagram.WithStyle(diagram.StyleDashed))

	c.Edge(relayV1, serviceV1, diagram.WithLabel("forward"), diagram.Bidirectional())
	c.Edge(relayV2, serviceV2, diagram.WithLabel("forward"), diagram.Bidirectional())

	c.Edge(relayV1, kafka, diagram.WithLabel("relay-logs"), diagram.WithColor("darkorange"))
	c.Edge(relayV2, kafka, diagram.WithLabel("relay-logs"), diagram.WithColor("darkorange"))

	c.Edge(kafka, monitor, diagram.WithLabel("consume"))
	c.Edge(monitor, prometheus)
	c.Edge(prometheus, grafana, diagram.WithColor("firebrick"), diagram.WithStyle(diagram.StyleDashed))

	return nil
}

var _ diagram.Generator = (*SidecarRelayArchitecture)(nil)
