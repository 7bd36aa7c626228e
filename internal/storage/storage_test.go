package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportObjectKey(t *testing.T) {
	key := SupportObjectKey("req_1", "Brief Client.PDF")
	assert.True(t, strings.HasPrefix(key, "supports/req_1/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.True(t, IsSupportKeyOf(key, "req_1"))
	assert.False(t, IsSupportKeyOf(key, "req_2"))
	assert.False(t, IsSupportKeyOf(key, ""))

	noExt := SupportObjectKey("req_1", `C:\docs\notes`)
	assert.Len(t, strings.TrimPrefix(noExt, "supports/req_1/"), 36)

	assert.NotEqual(t, SupportObjectKey("req_1", "a.pdf"), SupportObjectKey("req_1", "a.pdf"))
}
