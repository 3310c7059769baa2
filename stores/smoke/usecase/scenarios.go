package usecase

import (
	"fmt"
	"math/big"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/deployment"
	"github.com/x-xyz/rwat-deployer/stores/smoke/fixture"
)

const multicallName = "Multicall"

var (
	assetId     = big.NewInt(1)
	assetCap    = big.NewInt(300)
	mintAmount  = big.NewInt(10)
	shareAmount = big.NewInt(1)
)

// multicallProxy deploys Multicall behind a proxy with initialize().
func multicallProxy(ctx bCtx.Ctx, r *runner) (string, error) {
	d, err := r.deps.Deployer.DeployProxy(ctx, deployment.Request{
		Contract:    multicallName,
		Initializer: "initialize",
	})
	if err != nil {
		return "", err
	}
	if d.Address().IsEmpty() {
		return "", fmt.Errorf("empty multicall address: %w", domain.ErrNoCode)
	}
	return "multicall Contract deployed to: " + string(d.Address()), nil
}

// rwatProxy is the fixture itself: deploy plus grantRole(ADMIN, owner).
func rwatProxy(ctx bCtx.Ctx, r *runner) (string, error) {
	f, err := fixture.New(ctx, r.deps)
	if err != nil {
		return "", err
	}
	return "rwat deployed to: " + string(f.Address()), nil
}

func createAndMint(ctx bCtx.Ctx, r *runner, f *fixture.Fixture) (*big.Int, error) {
	uc := r.deps.RWAT
	if err := uc.GrantAdmin(ctx, f.Owner, f.Address(), domain.AddressOf(f.Provider.From)); err != nil {
		return nil, err
	}
	if err := uc.CreateAsset(ctx, f.Owner, f.Address(), assetId, assetCap, f.TestToken); err != nil {
		return nil, err
	}
	if _, err := uc.MintAsset(ctx, f.Owner, f.Address(), assetId, mintAmount); err != nil {
		return nil, err
	}
	return uc.TotalMinted(ctx, f.Address(), assetId)
}

// mintAsset reports getTotalMinted(1) after createAsset(1, 300) and
// mintAsset(1, 10).
func mintAsset(ctx bCtx.Ctx, r *runner) (string, error) {
	f, err := fixture.New(ctx, r.deps)
	if err != nil {
		return "", err
	}
	total, err := createAndMint(ctx, r, f)
	if err != nil {
		return "", err
	}
	return "total assets in circulation: " + total.String(), nil
}

// sendShares moves the first token held by the contract to a whitelisted
// investor and checks ownerOf.
func sendShares(ctx bCtx.Ctx, r *runner) (string, error) {
	f, err := fixture.New(ctx, r.deps)
	if err != nil {
		return "", err
	}
	if _, err := createAndMint(ctx, r, f); err != nil {
		return "", err
	}
	uc := r.deps.RWAT
	investor := domain.AddressOf(f.Investor.From)
	if err := uc.Whitelist(ctx, f.Owner, f.Address(), []domain.Address{investor}, true); err != nil {
		return "", err
	}

	held, err := uc.Holdings(ctx, f.Address(), f.Address())
	if err != nil {
		return "", err
	}
	if len(held.TokenIds) == 0 {
		return "", fmt.Errorf("contract holds no tokens after mint: %w", domain.ErrNotFound)
	}
	tokenId, ok := new(big.Int).SetString(held.TokenIds[0], 10)
	if !ok {
		return "", fmt.Errorf("token id %q: %w", held.TokenIds[0], domain.ErrBadParamInput)
	}

	if err := uc.SendShares(ctx, f.Owner, f.Address(), assetId, investor, shareAmount, []*big.Int{tokenId}); err != nil {
		return "", err
	}
	owner, err := uc.OwnerOf(ctx, f.Address(), tokenId)
	if err != nil {
		return "", err
	}
	detail := fmt.Sprintf("ownerOf(%s) = %s", tokenId, owner)
	if !owner.Equals(investor) {
		return detail, fmt.Errorf("%s, want investor %s", detail, investor)
	}
	return detail, nil
}
