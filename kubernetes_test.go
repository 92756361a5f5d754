package yamlls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKubernetesGVKTypeName(t *testing.T) {
	assert.Equal(t, "io.k8s.api.apps.v1.deployment", kubernetesGVKTypeName("apps.k8s.io", "v1", "Deployment"))
	assert.Equal(t, "io.k8s.api..v1.pod", kubernetesGVKTypeName("", "v1", "Pod"))
}

func TestSplitAPIVersion(t *testing.T) {
	group, version := splitAPIVersion("apps/v1")
	assert.Equal(t, "apps", group)
	assert.Equal(t, "v1", version)

	group, version = splitAPIVersion("v1")
	assert.Equal(t, "", group)
	assert.Equal(t, "v1", version)
}

func TestKubernetesCRDURL(t *testing.T) {
	url := kubernetesCRDURL("https://catalog.example.com/", "example.com", "v1", "Widget", false)
	assert.Equal(t, "https://catalog.example.com/example.com/widget_v1.json", url)

	openShiftURL := kubernetesCRDURL("https://catalog.example.com", "example.com", "v1", "Widget", true)
	assert.Equal(t, "https://catalog.example.com/openshift/v4.15-strict/widget_example.com_v1.json", openShiftURL)
}

func TestDetectGVK(t *testing.T) {
	root := parseDoc(t, "apiVersion: apps/v1\nkind: Deployment\n")
	group, version, kind, ok := detectGVK(root)
	require.True(t, ok)
	assert.Equal(t, "apps", group)
	assert.Equal(t, "v1", version)
	assert.Equal(t, "Deployment", kind)
}

func TestDetectGVKMissingFieldsIsNotOK(t *testing.T) {
	root := parseDoc(t, "name: web\n")
	_, _, _, ok := detectGVK(root)
	assert.False(t, ok)
}
