package yamlls

// SchemaAssociation configures one entry of Settings.Schemas: a schema
// URI plus the file-match glob patterns it applies to (spec 6 configure's
// `schemas: [{uri, fileMatch[], priority?, schema?, versions?}]`).
type SchemaAssociation struct {
	URI       string
	FileMatch []string
	Priority  int
	// Schema, when set, is compiled and registered inline instead of
	// being loaded from URI over the network/filesystem.
	Schema []byte
	// Versions restricts the association to specific Kubernetes apiVersion
	// strings; empty means unrestricted. Carried for host bookkeeping —
	// the core does not itself filter on it (the host's completion/hover
	// layer does, per spec 6).
	Versions []string
}

// Settings is the configure() payload spec 6 names. In the zero value
// validation, hover and completion are off and nothing is forbidden;
// NewService starts from Validate, Hover and Completion set to true.
type Settings struct {
	Validate                    bool
	Hover                       bool
	Completion                  bool
	Format                      bool
	IsKubernetes                bool
	Schemas                     []SchemaAssociation
	CustomTags                  []string
	Indentation                 string
	DisableAdditionalProperties bool
	DisableDefaultProperties    bool
	ParentSkeletonSelectedFirst bool
	YAMLVersion                 string // "1.1" or "1.2"
	FlowMapping                 string // "allow" or "forbid"
	FlowSequence                string // "allow" or "forbid"
	KeyOrdering                 bool
}

// additionalValidatorSettings projects the flow-style/key-ordering flags
// of Settings into the shape RunAdditionalValidators consumes.
func (s Settings) additionalValidatorSettings() AdditionalValidatorSettings {
	return AdditionalValidatorSettings{
		ForbidFlowMaps:  s.FlowMapping == "forbid",
		ForbidFlowSeqs:  s.FlowSequence == "forbid",
		EnforceKeyOrder: s.KeyOrdering,
	}
}

// customTagMap turns Settings.CustomTags ("!include scalar" style names)
// into the ConvertOptions.CustomTags map the converter expects. This
// service does not know the expected Kind for a custom tag beyond what
// the host declares, so every named tag passes through unconditionally
// (empty expected Kind means "never downgrade").
func customTagMap(tags []string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[t] = ""
	}
	return m
}
