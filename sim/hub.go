package sim

// ResolveHub maps the configured hub onto a network node. Resolution order:
// explicit coordinates, explicit name, per-city registry default, then the
// scenario's own stop names. Names resolve through the stop table; the core
// performs no geocoding. An unresolvable hub is fatal for the run since no
// distances can be computed without it.
func ResolveHub(n *Network, cfg *Config, stops StopTable, cityHub string) (int64, error) {
	if n.NumNodes() == 0 {
		return 0, newConfigError("network has no nodes")
	}
	if cfg.HubCoord != nil {
		id, ok := n.NearestNode(cfg.HubCoord.Lat, cfg.HubCoord.Lon)
		if !ok {
			return 0, newConfigError("no node near hub coordinate (%v, %v)", cfg.HubCoord.Lat, cfg.HubCoord.Lon)
		}
		return id, nil
	}
	if cfg.Hub != "" {
		// 显式指定的hub名称必须能解析，不再向后回退
		c, ok := stops[cfg.Hub]
		if !ok {
			return 0, newConfigError("hub %q not found in stop table of city %q", cfg.Hub, cfg.City)
		}
		id, _ := n.NearestNode(c.Lat, c.Lon)
		return id, nil
	}
	candidates := make([]string, 0, 1+len(cfg.TramStops))
	if cityHub != "" {
		candidates = append(candidates, cityHub)
	}
	candidates = append(candidates, cfg.TramStops...)
	for _, name := range candidates {
		if c, ok := stops[name]; ok {
			log.Debugf("hub resolved to stop %q", name)
			id, _ := n.NearestNode(c.Lat, c.Lon)
			return id, nil
		}
	}
	return 0, newConfigError("no hub could be resolved for city %q", cfg.City)
}
