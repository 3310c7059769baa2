package etherscan

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/domain"
)

var (
	proxyAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	implAddr  = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
)

type etherscanSuite struct {
	suite.Suite
	srv    *httptest.Server
	client Client
	ctx    bCtx.Ctx
	forms  []map[string]string
}

func TestEtherscanSuite(t *testing.T) {
	suite.Run(t, new(etherscanSuite))
}

func (s *etherscanSuite) SetupTest() {
	s.forms = nil
	s.srv = httptest.NewServer(http.HandlerFunc(s.serve))
	s.client = NewClient(&ClientCfg{
		HttpClient: http.Client{},
		ApiUrl:     s.srv.URL + "/api",
		ApiKey:     "KEY",
	})
	s.ctx = bCtx.Background()
}

func (s *etherscanSuite) TearDownTest() {
	s.srv.Close()
}

func (s *etherscanSuite) serve(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	form := map[string]string{"method": r.Method}
	for k := range r.Form {
		form[k] = r.Form.Get(k)
	}
	s.forms = append(s.forms, form)

	if form["apikey"] != "KEY" {
		w.Write([]byte(`{"status":"0","message":"NOTOK","result":"Invalid API Key"}`))
		return
	}
	switch form["action"] {
	case "verifysourcecode":
		if form["contractaddress"] == implAddr.Hex() {
			w.Write([]byte(`{"status":"0","message":"NOTOK","result":"Contract source code already verified"}`))
			return
		}
		w.Write([]byte(`{"status":"1","message":"OK","result":"guid-source"}`))
	case "checkverifystatus":
		switch form["guid"] {
		case "pending":
			w.Write([]byte(`{"status":"0","message":"NOTOK","result":"Pending in queue"}`))
		case "fail":
			w.Write([]byte(`{"status":"0","message":"NOTOK","result":"Fail - Unable to verify"}`))
		default:
			w.Write([]byte(`{"status":"1","message":"OK","result":"Pass - Verified"}`))
		}
	case "verifyproxycontract":
		w.Write([]byte(`{"status":"1","message":"OK","result":"guid-proxy"}`))
	case "checkproxyverification":
		w.Write([]byte(`{"status":"1","message":"OK","result":"The proxy's implementation contract is found and is successfully updated."}`))
	case "getsourcecode":
		if form["address"] == implAddr.Hex() {
			w.Write([]byte(`{"status":"1","message":"OK","result":[{"SourceCode":"{}","ContractName":"RWAT"}]}`))
			return
		}
		w.Write([]byte(`{"status":"1","message":"OK","result":[{"SourceCode":"","ContractName":""}]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *etherscanSuite) TestVerifySource() {
	guid, err := s.client.VerifySource(s.ctx, VerifySourceRequest{
		Address:          proxyAddr,
		SourceCode:       `{"language":"Solidity"}`,
		ContractName:     "contracts/RWAT.sol:RWAT",
		CompilerVersion:  "v0.8.4+commit.c7e474f2",
		OptimizationUsed: true,
		Runs:             1,
		ConstructorArgs:  "0xabcd",
	})
	s.Require().NoError(err)
	s.Equal("guid-source", guid)

	form := s.forms[0]
	s.Equal(http.MethodPost, form["method"])
	s.Equal(CodeFormatStandardJson, form["codeformat"])
	s.Equal("contracts/RWAT.sol:RWAT", form["contractname"])
	s.Equal("1", form["optimizationUsed"])
	s.Equal("1", form["runs"])
	s.Equal("abcd", form["constructorArguements"])

	_, err = s.client.VerifySource(s.ctx, VerifySourceRequest{Address: implAddr})
	s.ErrorIs(err, ErrAlreadyVerified)
}

func (s *etherscanSuite) TestCheckVerifyStatus() {
	st, err := s.client.CheckVerifyStatus(s.ctx, "pending")
	s.Require().NoError(err)
	s.True(st.Pending)
	s.False(st.Ok)

	st, err = s.client.CheckVerifyStatus(s.ctx, "fail")
	s.Require().NoError(err)
	s.False(st.Pending)
	s.False(st.Ok)
	s.Equal("Fail - Unable to verify", st.Message)

	st, err = s.client.CheckVerifyStatus(s.ctx, "guid-source")
	s.Require().NoError(err)
	s.True(st.Ok)
	s.Equal(http.MethodGet, s.forms[len(s.forms)-1]["method"])
}

func (s *etherscanSuite) TestVerifyProxy() {
	guid, err := s.client.VerifyProxy(s.ctx, proxyAddr, implAddr)
	s.Require().NoError(err)
	s.Equal("guid-proxy", guid)
	s.Equal(implAddr.Hex(), s.forms[0]["expectedimplementation"])

	st, err := s.client.CheckProxyVerification(s.ctx, guid)
	s.Require().NoError(err)
	s.True(st.Ok)
}

func (s *etherscanSuite) TestIsVerified() {
	ok, err := s.client.IsVerified(s.ctx, implAddr)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.client.IsVerified(s.ctx, proxyAddr)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *etherscanSuite) TestBadKey() {
	c := NewClient(&ClientCfg{ApiUrl: s.srv.URL + "/api", ApiKey: "WRONG"})
	_, err := c.VerifyProxy(s.ctx, proxyAddr, implAddr)
	s.ErrorIs(err, domain.ErrVerificationFailed)

	c = NewClient(&ClientCfg{ApiUrl: s.srv.URL + "/api"})
	_, err = c.CheckVerifyStatus(s.ctx, "x")
	s.ErrorIs(err, ErrMissingApiKey)
}
