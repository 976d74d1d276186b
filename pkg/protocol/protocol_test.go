package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForteScarlet/CatCode/pkg/catcode"
)

func shareCode(t *testing.T) *catcode.Code {
	t.Helper()
	code, err := catcode.Standard().Parse("[CAT:share,url=https://a/?x=1&amp;y=2,title=T&#44;U]")
	require.NoError(t, err)
	return code
}

func TestToJSON(t *testing.T) {
	at := catcode.Standard().CodeTemplate().At("1")

	tests := []struct {
		name     string
		code     catcode.View
		opts     Options
		expected string
	}{
		{"Distinct", at, Options{}, `{"type":"at","data":{"code":"1"}}`},
		{"Compact", at, Options{Mode: Compact}, `{"at":{"code":"1"}}`},
		{"Names", at, Options{TypeName: "t", DataName: "d"}, `{"t":"at","d":{"code":"1"}}`},
		{"Empty", catcode.Must(catcode.Standard().Empty("shake")), Options{}, `{"type":"shake","data":{}}`},
		{
			"Order",
			catcode.Must(catcode.Standard().FromPairs("share", catcode.Param{Key: "url", Value: "u"}, catcode.Param{Key: "title", Value: "a,b"})),
			Options{},
			`{"type":"share","data":{"url":"u","title":"a,b"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToJSON(tt.code, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	code := shareCode(t)
	for name, opts := range map[string]Options{
		"distinct": {},
		"compact":  {Mode: Compact},
		"names":    {TypeName: "kind", DataName: "params"},
	} {
		t.Run(name, func(t *testing.T) {
			data, err := ToJSON(code, opts)
			require.NoError(t, err)

			decoded, err := FromJSON(data, catcode.Standard(), opts)
			require.NoError(t, err)
			assert.True(t, code.Equal(decoded))
			assert.Equal(t, code.Keys(), decoded.Keys())
			assert.Equal(t, code.String(), decoded.String())
		})
	}
}

func TestFromJSONIgnoresUnknownMembers(t *testing.T) {
	code, err := FromJSON([]byte(`{"id":7,"type":"at","data":{"code":"1"},"extra":[1,2]}`), catcode.Wildcat("CQ"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "[CQ:at,code=1]", code.String())
}

func TestFromJSONWithComments(t *testing.T) {
	data := []byte(`{
		// a mention
		"type": "at",
		"data": {"code": "1",},
	}`)
	code, err := FromJSON(data, catcode.Standard(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "[CAT:at,code=1]", code.String())
}

func TestFromJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		opts Options
	}{
		{"Not an object", `[]`, Options{}},
		{"Numeric type", `{"type":1,"data":{}}`, Options{}},
		{"Missing type", `{"data":{"code":"1"}}`, Options{}},
		{"Numeric value", `{"type":"at","data":{"code":1}}`, Options{}},
		{"Bad key", `{"type":"at","data":{"co de":"1"}}`, Options{}},
		{"Bad subtype", `{"type":"a t","data":{}}`, Options{}},
		{"Trailing data", `{"type":"at","data":{}} {}`, Options{}},
		{"Two compact members", `{"at":{},"face":{}}`, Options{Mode: Compact}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.data), catcode.Standard(), tt.opts)
			require.Error(t, err)
		})
	}
}

func TestToXML(t *testing.T) {
	tests := []struct {
		name     string
		code     catcode.View
		expected string
	}{
		{"Empty", catcode.Must(catcode.Standard().Empty("shake")), `<shake />`},
		{
			"Params",
			catcode.Standard().CodeTemplate().ImageWith("a.jpg", catcode.ImageOptions{Flash: true}),
			`<image file="a.jpg" flash="true" />`,
		},
		{
			"Escaped",
			catcode.Must(catcode.Standard().FromPairs("share", catcode.Param{Key: "title", Value: `a"b<c>&`})),
			`<share title="a&#34;b&lt;c&gt;&amp;" />`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToXML(tt.code))
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	code, err := catcode.Standard().FromPairs("music",
		catcode.Param{Key: "type", Value: "qq"},
		catcode.Param{Key: "id", Value: "1"},
		catcode.Param{Key: "style", Value: "true"},
	)
	require.NoError(t, err)

	for name, opts := range map[string]Options{
		"distinct": {},
		"compact":  {Mode: Compact},
	} {
		t.Run(name, func(t *testing.T) {
			data, err := ToYAML(code, opts)
			require.NoError(t, err)

			decoded, err := FromYAML(data, catcode.Standard(), opts)
			require.NoError(t, err)
			assert.Equal(t, code.String(), decoded.String())
		})
	}

	data, err := ToYAML(code, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(data), "type: music")
}

func TestFromYAMLErrors(t *testing.T) {
	for name, data := range map[string]string{
		"Sequence":       "- a\n- b\n",
		"Nested value":   "type: at\ndata:\n  code: [1]\n",
		"Missing type":   "data:\n  code: '1'\n",
		"Data not a map": "type: at\ndata: x\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FromYAML([]byte(data), catcode.Standard(), Options{})
			require.Error(t, err)
		})
	}
}

func TestCBORRoundTrip(t *testing.T) {
	code := shareCode(t)
	for name, opts := range map[string]Options{
		"distinct": {},
		"compact":  {Mode: Compact},
	} {
		t.Run(name, func(t *testing.T) {
			data, err := ToCBOR(code, opts)
			require.NoError(t, err)

			again, err := ToCBOR(code, opts)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(data, again), "encoding must be deterministic")

			decoded, err := FromCBOR(data, catcode.Wildcat("CQ"), opts)
			require.NoError(t, err)
			assert.Equal(t, "CQ", decoded.Namespace())
			assert.True(t, code.SwitchNamespace("CQ").Equal(decoded))
			assert.Equal(t, []string{"title", "url"}, decoded.Keys())
		})
	}
}

func TestFromCBORErrors(t *testing.T) {
	numericType, err := encMode.Marshal(map[string]any{"type": 1})
	require.NoError(t, err)
	_, err = FromCBOR(numericType, catcode.Standard(), Options{})
	require.ErrorIs(t, err, ErrInvalidDocument)

	missing, err := encMode.Marshal(map[string]any{"data": map[string]string{}})
	require.NoError(t, err)
	_, err = FromCBOR(missing, catcode.Standard(), Options{})
	require.ErrorIs(t, err, ErrInvalidDocument)

	_, err = FromCBOR([]byte{0xff}, catcode.Standard(), Options{})
	require.Error(t, err)
}

func TestCBOREncoderStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewCBOREncoder(&buf)
	require.NoError(t, enc.Encode(catcode.Param{Key: "a", Value: "1"}))
	require.NoError(t, enc.Encode(catcode.Param{Key: "b", Value: "2"}))

	dec := NewCBORDecoder(&buf)
	var first, second catcode.Param
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, catcode.Param{Key: "a", Value: "1"}, first)
	assert.Equal(t, catcode.Param{Key: "b", Value: "2"}, second)
}
