package session

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/game-portal/internal/errors"
)

// TokenTestSuite 会话令牌测试套件
type TokenTestSuite struct {
	suite.Suite
	tokens *TokenManager
}

func (suite *TokenTestSuite) SetupTest() {
	suite.tokens = NewTokenManager("test-secret", time.Hour)
}

func (suite *TokenTestSuite) TestIssueAndParse() {
	token, expiresAt, err := suite.tokens.Issue("sid-1", Admin("admin"))
	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.Len(strings.Split(token, "."), 3)
	suite.WithinDuration(time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := suite.tokens.Parse(token)
	suite.Require().NoError(err)
	suite.Equal("sid-1", claims.SessionID)
	suite.Equal(Admin("admin"), claims.Identity())
	suite.Equal(tokenIssuer, claims.Issuer)
}

func (suite *TokenTestSuite) TestParseEmpty() {
	_, err := suite.tokens.Parse("")
	suite.True(errors.Is(err, errors.ErrSessionInvalid))
}

func (suite *TokenTestSuite) TestParseGarbage() {
	for _, token := range []string{"invalid", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30.xxx"} {
		_, err := suite.tokens.Parse(token)
		suite.True(errors.Is(err, errors.ErrSessionInvalid), token)
	}
}

func (suite *TokenTestSuite) TestParseWrongSecret() {
	other := NewTokenManager("other-secret", time.Hour)
	token, _, err := other.Issue("sid-1", Admin("admin"))
	suite.Require().NoError(err)

	_, err = suite.tokens.Parse(token)
	suite.True(errors.Is(err, errors.ErrSessionInvalid))
}

func (suite *TokenTestSuite) TestParseExpired() {
	past := NewTokenManager("test-secret", time.Minute)
	past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := past.Issue("sid-1", Admin("admin"))
	suite.Require().NoError(err)

	_, err = suite.tokens.Parse(token)
	suite.True(errors.Is(err, errors.ErrSessionExpired))
}

func (suite *TokenTestSuite) TestParseRejectsOtherAlgorithms() {
	claims := &Claims{
		SessionID: "sid-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	suite.Require().NoError(err)

	_, err = suite.tokens.Parse(token)
	suite.True(errors.Is(err, errors.ErrSessionInvalid))
}

func (suite *TokenTestSuite) TestParseMissingSessionID() {
	token, _, err := suite.tokens.Issue("", Admin("admin"))
	suite.Require().NoError(err)

	_, err = suite.tokens.Parse(token)
	suite.True(errors.Is(err, errors.ErrSessionInvalid))
}

func (suite *TokenTestSuite) TestConcurrentIssue() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, _, err := suite.tokens.Issue("sid", Admin("admin"))
			suite.NoError(err)
			_, err = suite.tokens.Parse(token)
			suite.NoError(err)
		}()
	}
	wg.Wait()
}

func TestTokenSuite(t *testing.T) {
	suite.Run(t, new(TokenTestSuite))
}
