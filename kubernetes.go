package yamlls

import "strings"

// kubernetesGVKTypeName computes the built-in Kubernetes schema type
// name for a given apiVersion/kind pair, e.g. "io.k8s.api.apps.v1.deployment".
// Per spec 6: group "k8s.io" suffixes are stripped from the group
// component, and the whole name is lowercased.
func kubernetesGVKTypeName(group, version, kind string) string {
	group = strings.TrimSuffix(group, ".k8s.io")
	name := "io.k8s.api." + group + "." + version + "." + kind
	return strings.ToLower(name)
}

// splitAPIVersion splits a Kubernetes apiVersion value ("group/version",
// or just "version" for the core group) into group and version parts.
func splitAPIVersion(apiVersion string) (group, version string) {
	if idx := strings.IndexByte(apiVersion, '/'); idx != -1 {
		return apiVersion[:idx], apiVersion[idx+1:]
	}
	return "", apiVersion
}

// kubernetesCRDURL synthesises the CRD-catalog URL for a GVK the main
// Kubernetes schema doesn't already define, per spec 6's two URL shapes.
func kubernetesCRDURL(catalog, group, version, kind string, openShift bool) string {
	catalog = strings.TrimSuffix(catalog, "/")
	if openShift {
		return catalog + "/openshift/v4.15-strict/" + strings.ToLower(kind) + "_" + strings.ToLower(group) + "_" + strings.ToLower(version) + ".json"
	}
	return catalog + "/" + group + "/" + strings.ToLower(kind) + "_" + strings.ToLower(version) + ".json"
}

// detectGVK reads apiVersion/kind off a document root object node, per
// spec 4.D's Kubernetes GVK auto-detect step. Returns ok=false when the
// root isn't an object or the fields are absent/non-string.
func detectGVK(root *Node) (group, version, kind string, ok bool) {
	if root == nil || root.Kind != KindObject {
		return "", "", "", false
	}
	apiVersionProp := root.Property("apiVersion")
	kindProp := root.Property("kind")
	if apiVersionProp == nil || apiVersionProp.Value == nil || apiVersionProp.Value.Kind != KindString {
		return "", "", "", false
	}
	if kindProp == nil || kindProp.Value == nil || kindProp.Value.Kind != KindString {
		return "", "", "", false
	}
	group, version = splitAPIVersion(apiVersionProp.Value.StrValue)
	return group, version, kindProp.Value.StrValue, true
}
