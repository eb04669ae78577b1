package generators

import "github.com/doppelganger/archviz/pkg/diagram"

// ComponentsArchitecture shows the Doppelganger traffic-mirroring setup:
// the proxy between client and origin server, the request replicator fanning
// mirrored traffic out to shadow instances, and the comparator pipeline that
// scores shadow behavior against the master.
type ComponentsArchitecture struct{}

// Name returns the display name of the diagram.
func (ComponentsArchitecture) Name() string {
	return "Components Architecture"
}

// FileName returns the output file stem.
func (ComponentsArchitecture) FileName() string {
	return "components_architecture"
}

// Generate declares the component topology.
func (ComponentsArchitecture) Generate(c *diagram.Context) error {
	var client, server *diagram.Node
	c.Cluster("Internet", func(cl *diagram.Cluster) {
		client = cl.Node(diagram.KindClient, "Client")
		server = cl.Node(diagram.KindService, "Server")
	})

	var comparator, db, proxy, grafana, kafka, prometheus, redis, replicator *diagram.Node
	c.Cluster("Doppelganger", func(cl *diagram.Cluster) {
		comparator = cl.Node(diagram.KindService, "Behavior Comparator")
		db = cl.Node(diagram.KindDatabase, "DB")
		proxy = cl.Node(diagram.KindNetwork, "Proxy")
		grafana = cl.Node(diagram.KindMonitoring, "Dashboard")
		kafka = cl.Node(diagram.KindQueue, "Kafka")
		prometheus = cl.Node(diagram.KindMonitoring, "Prometheus")
		redis = cl.Node(diagram.KindCache, "Cache")
		replicator = cl.Node(diagram.KindNetwork, "Request Replicator")
	})

	var master, shadow1, shadowx *diagram.Node
	c.Cluster("Service", func(cl *diagram.Cluster) {
		master = cl.Node(diagram.KindContainer, "Master")
		cl.Cluster("Shadows", func(sh *diagram.Cluster) {
			shadow1 = sh.Node(diagram.KindContainer, "Shadow 1")
			shadowx = sh.Node(diagram.KindContainer, "Shadow x")
		})
	})

	c.EdgeAll(proxy, []*diagram.Node{master, kafka})
	c.Edge(master, proxy)
	c.Edge(replicator, shadowx, diagram.Bidirectional())
	c.Edge(replicator, shadow1, diagram.Bidirectional())

	c.Link(shadow1, shadowx, diagram.WithStyle(diagram.StyleDotted))

	c.Edge(client, proxy, diagram.WithLabel("TCP"))
	c.Edge(proxy, server, diagram.WithLabel("TCP"))

	c.Edge(kafka, replicator)
	c.Edge(replicator, kafka)
	c.Edge(replicator, redis)
	c.Edge(comparator, db)
	c.Edge(kafka, comparator)
	c.Edge(comparator, prometheus)
	c.Edge(prometheus, grafana)

	return nil
}

var _ diagram.Generator = (*ComponentsArchitecture)(nil)
