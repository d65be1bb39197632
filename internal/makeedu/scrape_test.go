package makeedu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterPage = `
<html><body><table><tbody>
<tr>
  <td><a class="dl_pop st_" title="김철수">김철수</a></td>
  <td><a class="btnPayName">초5-1 기본</a></td>
  <td><input type="checkbox" class="checkPayYn changeCheck" checked></td>
</tr>
<tr>
  <td><a class="dl_pop st_red" title="이영희">이영희</a></td>
  <td><a class="btnPayName"> 중1 영어 독해 </a></td>
  <td><input type="checkbox" class="checkPayYn changeCheck"></td>
</tr>
<tr>
  <td><a class="dl_pop st_">박민수</a></td>
  <td><a class="btnPayName">수학의 정석</a></td>
  <td><input type="checkbox" class="checkPayYn changeCheck" checked></td>
</tr>
<tr>
  <td><a class="dl_pop st_" title=""></a></td>
  <td><a class="btnPayName">무명 교재</a></td>
</tr>
<tr>
  <td><a class="other_link" title="직원">직원</a></td>
</tr>
</tbody></table></body></html>`

func TestExtractRows(t *testing.T) {
	rows, err := ExtractRows(strings.NewReader(rosterPage))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Row{StudentName: "김철수", BookName: "초5-1 기본", IsPaid: true}, rows[0])

	// red-marked students are included; surrounding whitespace trimmed
	assert.Equal(t, Row{StudentName: "이영희", BookName: "중1 영어 독해", IsPaid: false}, rows[1])

	// missing title falls back to the link text
	assert.Equal(t, Row{StudentName: "박민수", BookName: "수학의 정석", IsPaid: true}, rows[2])
}

func TestExtractRowsEmptyPage(t *testing.T) {
	rows, err := ExtractRows(strings.NewReader("<html><body><p>no table</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
