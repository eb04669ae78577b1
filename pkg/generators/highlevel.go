package generators

import "github.com/doppelganger/archviz/pkg/diagram"

// HighLevelArchitecture is the bird's-eye view of the platform: ingress in
// front of the gRPC service cluster, HA session and database pairs, and the
// logging pipeline feeding stream analytics.
type HighLevelArchitecture struct{}

// Name returns the display name of the diagram.
func (HighLevelArchitecture) Name() string {
	return "Advanced Web Service with On-Premises (colored)"
}

// FileName returns the output file stem.
func (HighLevelArchitecture) FileName() string {
	return "advanced_web_service"
}

// Generate declares the high-level topology.
func (HighLevelArchitecture) Generate(c *diagram.Context) error {
	ingress := c.Node(diagram.KindGateway, "ingress")

	metrics := c.Node(diagram.KindMonitoring, "metrics")
	monitoring := c.Node(diagram.KindMonitoring, "monitoring")
	c.Edge(monitoring, metrics, diagram.WithColor("firebrick"), diagram.WithStyle(diagram.StyleDashed))

	var grpcsvc []*diagram.Node
	c.Cluster("Service Cluster", func(cl *diagram.Cluster) {
		grpcsvc = []*diagram.Node{
			cl.Node(diagram.KindService, "grpc1"),
			cl.Node(diagram.KindService, "grpc2"),
			cl.Node(diagram.KindService, "grpc3"),
		}
	})

	c.Cluster("Sessions HA", func(cl *diagram.Cluster) {
		session := cl.Node(diagram.KindCache, "session")
		replica := cl.Node(diagram.KindCache, "replica")
		c.Link(session, replica, diagram.WithColor("brown"), diagram.WithStyle(diagram.StyleDashed))
		c.Edge(metrics, replica, diagram.WithLabel("collect"))
		c.EdgeFrom(grpcsvc, session, diagram.WithColor("brown"))
	})

	c.Cluster("Database HA", func(cl *diagram.Cluster) {
		users := cl.Node(diagram.KindDatabase, "users")
		replica := cl.Node(diagram.KindDatabase, "replica")
		c.Link(users, replica, diagram.WithColor("brown"), diagram.WithStyle(diagram.StyleDotted))
		c.Edge(metrics, replica, diagram.WithLabel("collect"))
		c.EdgeFrom(grpcsvc, users, diagram.WithColor("black"))
	})

	aggregator := c.Node(diagram.KindAggregator, "logging")
	stream := c.Node(diagram.KindQueue, "stream")
	analytics := c.Node(diagram.KindAnalytics, "analytics")
	c.Edge(aggregator, stream, diagram.WithLabel("parse"))
	c.Edge(stream, analytics, diagram.WithColor("black"), diagram.WithStyle(diagram.StyleBold))

	c.EdgeAll(ingress, grpcsvc, diagram.WithColor("darkgreen"), diagram.Bidirectional())
	c.EdgeFrom(grpcsvc, aggregator, diagram.WithColor("darkorange"))

	return nil
}

var _ diagram.Generator = (*HighLevelArchitecture)(nil)
