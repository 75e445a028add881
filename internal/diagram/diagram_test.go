package diagram

import (
	"fmt"
	"strings"
	"testing"

	"github.com/olehluchkiv/epwizard/internal/options"
	"github.com/olehluchkiv/epwizard/internal/pages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(prefix string, n int) []options.FieldDescriptor {
	out := make([]options.FieldDescriptor, n)
	for i := range out {
		out[i] = options.FieldDescriptor{Key: fmt.Sprintf("%s%d", prefix, i), Type: options.TypeString}
	}
	return out
}

func testPlan(t *testing.T) Plan {
	t.Helper()
	common := fields("c", 3)
	common[0].Required = true
	common[1].HasDefault, common[1].Default = true, "1000"
	steps, err := pages.Paginate([]options.OptionGroup{
		{Name: "common", Fields: common},
		{Name: "advanced", Fields: fields("a", 2)},
	}, 2)
	require.NoError(t, err)
	return Plan{Component: "timer", EndpointType: "<any>", MaxFieldsPerPage: 2, Steps: steps}
}

func TestGenerateMermaid(t *testing.T) {
	plan := testPlan(t)
	require.Len(t, plan.Steps, 3)

	out := GenerateMermaid(plan, DefaultDiagramOptions())

	assert.True(t, strings.HasPrefix(out, "classDiagram\n    direction LR"))
	assert.Contains(t, out, "class page_1 {\n        <<common>>\n        +c0 : string required\n        +c1 : string\n    }")
	assert.Contains(t, out, "page_1 --> page_2")
	assert.Contains(t, out, "page_2 --> page_3")
	assert.Contains(t, out, `cssClass "page_3" lastPageStyle`)
	assert.Contains(t, out, `cssClass "page_1" pageStyle`)
	assert.NotContains(t, out, "%%{init")
}

func TestGenerateMermaid_Empty(t *testing.T) {
	assert.Equal(t, "classDiagram", GenerateMermaid(Plan{}, DefaultDiagramOptions()))
}

func TestGenerateMermaid_IncludeInit(t *testing.T) {
	opts := DefaultDiagramOptions()
	opts.IncludeInit = true
	out := GenerateMermaid(testPlan(t), opts)
	assert.True(t, strings.HasPrefix(out, "%%{init:"))
}

func TestGenerateMermaid_Truncates(t *testing.T) {
	steps, err := pages.Paginate([]options.OptionGroup{{Name: "common", Fields: fields("c", 12)}}, 20)
	require.NoError(t, err)

	out := GenerateMermaid(Plan{Steps: steps}, DiagramOptions{MaxFieldsPerBox: 8})
	assert.Contains(t, out, "+c7 : string")
	assert.NotContains(t, out, "+c8 : string")
	assert.Contains(t, out, "... 4 more")
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "consumer advanced", SanitizeLabel("consumer <advanced>"))
	assert.Equal(t, "mapstring", SanitizeLabel("map{string}~"))
}

func TestGenerateText(t *testing.T) {
	out := GenerateText(testPlan(t))

	assert.True(t, strings.HasPrefix(out, "timer (<any>): 5 fields on 3 pages, at most 2 per page\n"))
	assert.Contains(t, out, "Page 1/3 common")
	assert.Contains(t, out, "Page 3/3 advanced")
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "c0")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "1000")
}

func TestGenerateText_EmptyPage(t *testing.T) {
	steps, err := pages.Paginate(nil, 20)
	require.NoError(t, err)

	out := GenerateText(Plan{Component: "ghost", EndpointType: "<any>", MaxFieldsPerPage: 20, Steps: steps})
	assert.Contains(t, out, "0 fields on 1 pages")
	assert.Contains(t, out, "(no options)")
}

func TestBuildSlides_BelowThreshold(t *testing.T) {
	plan := testPlan(t)
	slides := BuildSlides(plan, DefaultDiagramOptions(), SlideOptions{Threshold: 4})
	require.Len(t, slides, 1)
	assert.Equal(t, "Full Diagram", slides[0].Title)
	assert.Equal(t, GenerateMermaid(plan, DefaultDiagramOptions()), slides[0].Mermaid)
}

func TestBuildSlides_Split(t *testing.T) {
	plan := testPlan(t)
	slides := BuildSlides(plan, DefaultDiagramOptions(), SlideOptions{Threshold: 2})
	require.Len(t, slides, 4)

	assert.Equal(t, "Overview", slides[0].Title)
	assert.Contains(t, slides[0].Mermaid, "2 fields")
	assert.Contains(t, slides[0].Mermaid, "page_2 --> page_3")
	assert.NotContains(t, slides[0].Mermaid, "+c0")

	assert.Equal(t, "Page 1/3: common", slides[1].Title)
	assert.Contains(t, slides[1].Mermaid, "+c0 : string required")
	assert.NotContains(t, slides[1].Mermaid, "page_2")
	assert.Equal(t, "Page 3/3: advanced", slides[3].Title)
}

func TestBuildSlides_ZeroThresholdIsSingle(t *testing.T) {
	slides := BuildSlides(testPlan(t), DefaultDiagramOptions(), SlideOptions{})
	assert.Len(t, slides, 1)
}
